package flagvalue

import (
	"strings"

	"braces.dev/errtrace"
)

// List is a generic flag.Getter
// that accepts zero or more instances of the same flag
// and combines them into a list,
// such as the patterns of a repeated -exclude.
type List[T any, PT Getter[T]] []T

// ListOf wraps a slice of flag.Getter objects
// to accept zero or more instances of that flag.
//
//	flag.Var(flagvalue.ListOf(&items), "item", ...)
func ListOf[T any, PT Getter[T]](vs *[]T) *List[T, PT] {
	return (*List[T, PT])(vs)
}

// Get returns the values recorded so far
// as a slice of the underlying type.
func (lv *List[T, PT]) Get() any { return []T(*lv) }

// Strings returns the values in this list as their flag strings.
func (lv *List[T, PT]) Strings() []string {
	ss := make([]string, len(*lv))
	for i := range *lv {
		ss[i] = PT(&(*lv)[i]).String()
	}
	return ss
}

// String returns a semicolon separated list of the values in this list.
func (lv *List[T, PT]) String() string {
	return strings.Join(lv.Strings(), "; ")
}

// Set receives a single flag argument into this list.
func (lv *List[T, PT]) Set(s string) error {
	var v T
	if err := PT(&v).Set(s); err != nil {
		return errtrace.Wrap(err)
	}
	*lv = append(*lv, v)
	return nil
}
