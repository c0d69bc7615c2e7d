package stage

import (
	"sort"
	"strings"
)

// Health reports whether a stage can accept queue items.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy returns a ready record for name.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy returns a record for name that explains why it cannot run.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Detail: strings.TrimSpace(detail)}
}

func (h Health) String() string {
	if h.Ready {
		return h.Name + ": ready"
	}
	if h.Detail == "" {
		return h.Name + ": not ready"
	}
	return h.Name + ": " + h.Detail
}

// NotReady returns the unready entries of health ordered by stage name.
func NotReady(health map[string]Health) []Health {
	var out []Health
	for name, h := range health {
		if h.Ready {
			continue
		}
		if h.Name == "" {
			h.Name = name
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
