package middleware

import "net/http"

// Func wraps an http.Handler with cross-cutting behavior.
type Func func(http.Handler) http.Handler

// Stack is an ordered list of middleware. The zero value is ready to use.
// Middleware added first runs outermost.
type Stack struct {
	funcs []Func
}

// New creates an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Use appends fn to the stack.
func (s *Stack) Use(fn Func) {
	s.funcs = append(s.funcs, fn)
}

// Len reports how many middleware are on the stack.
func (s *Stack) Len() int {
	return len(s.funcs)
}

// Apply wraps handler with every middleware on the stack.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.funcs) - 1; i >= 0; i-- {
		handler = s.funcs[i](handler)
	}
	return handler
}
