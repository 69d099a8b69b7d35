// Package featureflags evaluates rollout switches configured as a key=value list,
// for example "live_updates=on,comment_edit=25%".
package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// LiveUpdates gates the websocket interaction feed.
const LiveUpdates = "live_updates"

// Flags holds the parsed flag values.
type Flags struct {
	values map[string]string
}

// Parse builds Flags from a comma-separated list. Malformed entries are skipped.
func Parse(raw string) *Flags {
	values := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key, value = clean(key), clean(value)
		if key == "" || value == "" {
			continue
		}
		values[key] = value
	}
	return &Flags{values: values}
}

// Enabled evaluates flag name for subject, which is a user id or a session id.
// on/true/1 and off/false/0 ignore the subject; "N%" buckets the subject
// deterministically and is off for an empty subject unless N is 100.
func (f *Flags) Enabled(name, subject string) bool {
	if f == nil {
		return false
	}
	value, ok := f.values[clean(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case subject == "":
		return false
	}
	return bucket(name, subject) < pct
}

// Names returns the configured flag names in sorted order.
func (f *Flags) Names() []string {
	names := make([]string, 0, len(f.values))
	for name := range f.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every configured flag for subject.
func (f *Flags) Snapshot(subject string) map[string]bool {
	out := make(map[string]bool, len(f.values))
	for name := range f.values {
		out[name] = f.Enabled(name, subject)
	}
	return out
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name, subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clean(name) + ":" + subject))
	return int(h.Sum32() % 100)
}
