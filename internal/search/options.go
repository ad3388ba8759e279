package search

// Well-known option names. The set is open: engines document which keys
// they understand and reject unknown values with KindInvalidParameters.
const (
	OptMaxResults     = "max_results"     // int
	OptLanguage       = "language"        // string, BCP 47 tag
	OptCategories     = "categories"      // []string
	OptTimeRange      = "time_range"      // string: day, week, month, year
	OptSearchDepth    = "search_depth"    // string: basic, advanced
	OptTopic          = "topic"           // string: general, news, finance
	OptIncludeDomains = "include_domains" // []string
	OptExcludeDomains = "exclude_domains" // []string
	OptCountry        = "country"         // string, 2-letter code
	OptSafeSearch     = "safe_search"     // bool
)

// Options is an open bag of per-call engine parameters. Values are typed;
// the getters perform the narrow conversions callers actually hit (JSON
// decoding yields float64 for numbers, []any for lists).
type Options map[string]any

// Int returns the option as an int when it is an int or a whole float64.
func (o Options) Int(key string) (int, bool) {
	switch v := o[key].(type) {
	case int:
		return v, true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// String returns the option as a string.
func (o Options) String(key string) (string, bool) {
	s, ok := o[key].(string)
	return s, ok
}

// Bool returns the option as a bool.
func (o Options) Bool(key string) (bool, bool) {
	b, ok := o[key].(bool)
	return b, ok
}

// Strings returns the option as a string slice, accepting either []string
// or []any of strings.
func (o Options) Strings(key string) ([]string, bool) {
	switch v := o[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Clone returns a shallow copy so callers can add defaults without
// mutating the caller-owned map.
func (o Options) Clone() Options {
	out := make(Options, len(o)+2)
	for k, v := range o {
		out[k] = v
	}
	return out
}
