package kubewrap

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvMap is a process environment keyed by variable name.
type EnvMap map[string]string

// StringSlice returns the environment in KEY=value form, sorted by key.
func (e EnvMap) StringSlice() []string {
	res := make([]string, 0, len(e))
	for k, v := range e {
		res = append(res, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(res)
	return res
}

func envAsMap() EnvMap {
	m := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			m[e[:i]] = e[i+1:]
		}
	}

	return m
}
