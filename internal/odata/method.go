package odata

// Method is an HTTP method understood by the protocol layer.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodMerge  Method = "MERGE"
	MethodDelete Method = "DELETE"
)

var methods = map[string]Method{
	string(MethodGet):    MethodGet,
	string(MethodPost):   MethodPost,
	string(MethodPut):    MethodPut,
	string(MethodPatch):  MethodPatch,
	string(MethodMerge):  MethodMerge,
	string(MethodDelete): MethodDelete,
}

// ParseMethod maps a method token onto a Method. Tokens are case-sensitive,
// so "get" is rejected the same way an unknown verb is.
func ParseMethod(token string) (Method, bool) {
	m, ok := methods[token]
	return m, ok
}

func (m Method) String() string {
	return string(m)
}
