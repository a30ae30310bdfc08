package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/nodegen/nodetree"
)

// iface emits interface items in order. Panels are created inside their
// enclosing panel, parent being nil at the root.
func (s *scope) iface(items []nodetree.InterfaceItem, parent jen.Code) error {
	if parent == nil {
		parent = jen.Nil()
	}
	for _, it := range items {
		var err error
		switch it := it.(type) {
		case *nodetree.Panel:
			err = s.panel(it, parent)
		case *nodetree.InterfaceSocket:
			err = s.socket(it, parent)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *scope) panel(p *nodetree.Panel, parent jen.Code) error {
	create := jen.Id("tree").Dot("Interface").Dot("NewPanel").Call(jen.Lit(p.Name), parent)
	if len(p.Items) == 0 && p.Description == "" && !p.DefaultClosed {
		s.add(create)
		return nil
	}
	v := s.e.alloc.Allocate(p.Name)
	s.add(jen.Id(v).Op(":=").Add(create))
	if p.Description != "" {
		s.add(jen.Id(v).Dot("Description").Op("=").Lit(p.Description))
	}
	if p.DefaultClosed {
		s.add(jen.Id(v).Dot("DefaultClosed").Op("=").True())
	}
	return s.iface(p.Items, jen.Id(v))
}

func (s *scope) socket(is *nodetree.InterfaceSocket, parent jen.Code) error {
	inOut := s.e.qual("Input")
	if is.InOut == nodetree.Output {
		inOut = s.e.qual("Output")
	}
	create := jen.Id("tree").Dot("Interface").Dot("NewSocket").Call(jen.Lit(is.Name), inOut, s.e.enc.SocketType(is.Type), parent)
	if !s.socketProps(is) {
		s.add(create)
		return nil
	}
	v := s.e.alloc.Allocate(is.Name)
	field := func(name string) func(jen.Code) *jen.Statement {
		return func(val jen.Code) *jen.Statement { return jen.Id(v).Dot(name).Op("=").Add(val) }
	}

	// Collect the property statements aside: the variable is declared only
	// when something uses it.
	outer, deferred := s.body, len(s.deferred)
	s.body = nil
	if is.Description != "" {
		s.add(field("Description")(jen.Lit(is.Description)))
	}
	if s.e.cfg.SocketDefaults {
		if is.Default != nil {
			if err := s.socketDefault(field("Default"), is.Type, is.Default, is.Name); err != nil {
				s.body = outer
				return err
			}
		}
		if is.MinValue != nodetree.DefaultMinValue {
			s.add(field("MinValue")(s.e.enc.Float(is.MinValue)))
		}
		if is.MaxValue != nodetree.DefaultMaxValue {
			s.add(field("MaxValue")(s.e.enc.Float(is.MaxValue)))
		}
		if is.AttributeDomain != "" {
			s.add(field("AttributeDomain")(jen.Lit(is.AttributeDomain)))
		}
		if is.HideValue {
			s.add(field("HideValue")(jen.True()))
		}
	}
	props := s.body
	s.body = outer
	if len(props) == 0 && len(s.deferred) == deferred {
		s.add(create)
		return nil
	}
	s.add(jen.Id(v).Op(":=").Add(create))
	s.add(props...)
	return nil
}

// socketProps reports whether an interface socket may need a variable.
func (s *scope) socketProps(is *nodetree.InterfaceSocket) bool {
	if is.Description != "" {
		return true
	}
	if !s.e.cfg.SocketDefaults {
		return false
	}
	return is.Default != nil ||
		is.MinValue != nodetree.DefaultMinValue ||
		is.MaxValue != nodetree.DefaultMaxValue ||
		is.AttributeDomain != "" ||
		is.HideValue
}

// socketDefault emits the assignment of a socket default through set. Menu
// defaults are deferred until every link exists.
func (s *scope) socketDefault(set func(jen.Code) *jen.Statement, socketType string, v nodetree.Value, where string) error {
	vt, ok := SocketValueType(socketType, v)
	if !ok {
		return nil
	}
	enc, err := s.e.enc.Encode(v, vt)
	if err != nil {
		s.warn(where, "", "socket default: %v", err)
		return nil
	}
	if socketType == nodetree.SocketMenu {
		lit, ok := enc.(Literal)
		if !ok {
			return nil
		}
		s.deferred = append(s.deferred, func() []jen.Code {
			return []jen.Code{set(lit.Expr)}
		})
		return nil
	}
	return s.assign(set, enc, where, "")
}
