package caller

import (
	"runtime"
	"strings"
)

// Name returns the name of the function or method that called Name, with
// the package path stripped. Methods come out as "type.Method" and
// closures are attributed to the function that declared them.
//
//	func (m *mapper) run(ctx context.Context) error {
//		caller.Name() // "mapper.run"
//	}
//
// A positive offset walks further up the stack: caller.Name(1) names the
// caller's caller.
func Name(offsetOpt ...int) string {
	offset := 1
	if len(offsetOpt) > 0 {
		offset += offsetOpt[0]
	}

	pc, _, _, ok := runtime.Caller(offset)
	if !ok {
		return ""
	}

	details := runtime.FuncForPC(pc)
	if details == nil {
		return ""
	}

	return shortName(details.Name())
}

// shortName turns "github.com/x/y/pkg.(*T).Method.func1" into "T.Method".
func shortName(fullName string) string {
	if i := strings.LastIndex(fullName, "/"); i >= 0 {
		fullName = fullName[i+1:]
	}

	// generic types are reported as "T[...]"
	fullName = strings.ReplaceAll(fullName, "[...]", "")

	parts := strings.Split(fullName, ".")

	// closures: drop "func1", "func2", ...
	for len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[1]
	default:
		typeName := strings.Trim(parts[len(parts)-2], "(*)")
		return typeName + "." + parts[len(parts)-1]
	}
}
