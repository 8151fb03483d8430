package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type flagChoiceError struct {
	flags []string
}

func (e flagChoiceError) Error() string {
	return fmt.Sprintf("provide exactly one of %s", joinFlags(e.flags))
}

func errExactlyOne(flags ...string) error {
	return flagChoiceError{flags: flags}
}

func joinFlags(flags []string) string {
	out := ""
	for i, f := range flags {
		switch {
		case i == 0:
		case i == len(flags)-1:
			out += " or "
		default:
			out += ", "
		}
		out += "--" + f
	}
	return out
}
