package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/nodegen/schema"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("nodegen: missing configuration")
	// ErrDanglingReference indicates a group node whose tree does not resolve.
	ErrDanglingReference = errors.New("nodegen: dangling tree reference")
	// ErrMissingContainer indicates a root tree without a usable host container.
	ErrMissingContainer = errors.New("nodegen: missing root container")
	// ErrEncode indicates a value that cannot be encoded for its declared type.
	ErrEncode = errors.New("nodegen: cannot encode value")
	// ErrUnknownValueType indicates a value type the encoder has no rule for.
	ErrUnknownValueType = errors.New("nodegen: unknown value type")
	// ErrUnknownVariant indicates an unrecognized sub-variant tag.
	ErrUnknownVariant = schema.ErrUnknownVariant
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("nodegen: code generation failed")
)

// VariantError is the schema error reported for unrecognized variant tags.
type VariantError = schema.VariantError

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("nodegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("nodegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// ReferenceError reports a group node whose referenced tree is missing.
type ReferenceError struct {
	Tree string // tree holding the group node
	Node string // group node name
	Ref  string // raw reference, possibly empty
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: dangling reference")
	if e.Node != "" {
		fmt.Fprintf(&b, " from node %q", e.Node)
	}
	if e.Tree != "" {
		fmt.Fprintf(&b, " in tree %q", e.Tree)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " to %q", e.Ref)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ReferenceError.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// NewReferenceError creates a new ReferenceError.
func NewReferenceError(tree, node, ref string) *ReferenceError {
	return &ReferenceError{Tree: tree, Node: node, Ref: ref}
}

// ContainerError reports a root tree that cannot be bound to a container.
type ContainerError struct {
	Tree    string
	Domain  string
	Message string
}

// Error implements the error interface.
func (e *ContainerError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: container error")
	if e.Tree != "" {
		fmt.Fprintf(&b, " on %s tree %q", e.Domain, e.Tree)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ContainerError.
func (e *ContainerError) Is(target error) bool {
	return target == ErrMissingContainer
}

// NewContainerError creates a new ContainerError.
func NewContainerError(tree, domain, message string) *ContainerError {
	return &ContainerError{Tree: tree, Domain: domain, Message: message}
}

// EncodeError represents a value that could not be encoded.
type EncodeError struct {
	Type    schema.ValueType // declared value type
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: encode error")
	if e.Type != "" {
		b.WriteString(" for type ")
		b.WriteString(string(e.Type))
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for EncodeError.
func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

// NewEncodeError creates a new EncodeError.
func NewEncodeError(t schema.ValueType, value any, message string, cause error) *EncodeError {
	return &EncodeError{
		Type:    t,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "resolve", "emit", "externalize", "render".
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsReferenceError reports whether the error is a ReferenceError.
func IsReferenceError(err error) bool {
	var refErr *ReferenceError
	return errors.As(err, &refErr)
}

// IsContainerError reports whether the error is a ContainerError.
func IsContainerError(err error) bool {
	var containerErr *ContainerError
	return errors.As(err, &containerErr)
}

// IsEncodeError reports whether the error is an EncodeError.
func IsEncodeError(err error) bool {
	var encErr *EncodeError
	return errors.As(err, &encErr)
}

// IsVariantError reports whether the error is a VariantError.
func IsVariantError(err error) bool {
	var varErr *VariantError
	return errors.As(err, &varErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
