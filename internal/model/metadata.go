package model

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/okvist/hatodo/internal/sanitize"
)

// DefaultIcon is the blank-checkbox icon id used when an item carries no
// icon of its own. The id format is kept compatible with the host
// platform's icon set so lists stay shareable with other frontends.
const DefaultIcon = "mdi:checkbox-blank-outline"

// Subtask is a client-managed checklist entry nested under one item. It
// lives only inside the parent item's encoded metadata, never as a host
// entity of its own.
type Subtask struct {
	UID     string `json:"uid"`
	Summary string `json:"summary"`
	Status  Status `json:"status"`
}

// Metadata is the structured record the card encodes inside the host's
// free-text description field. A decoded Metadata is always fully
// populated; string zero values mean "not set" and are omitted on encode.
type Metadata struct {
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Link        string    `json:"link,omitempty"`
	Quantity    string    `json:"quantity,omitempty"`
	Subtasks    []Subtask `json:"subtasks,omitempty"`
}

// DefaultMetadata returns the all-defaults record that decoding degrades to.
func DefaultMetadata() Metadata {
	return Metadata{
		Priority: sanitize.DefaultPriority,
		Icon:     DefaultIcon,
		Subtasks: []Subtask{},
	}
}

// ParseMetadata decodes the description text of an item. It never fails:
// malformed JSON, a non-object top level, or individually bad fields all
// degrade to defaults. Free-text descriptions written by other frontends
// are expected here, so decode failures are not treated as errors.
func ParseMetadata(desc string) Metadata {
	m, err := decodeMetadata(desc)
	if err != nil {
		return DefaultMetadata()
	}
	return m
}

// rawMetadata accepts arbitrarily-typed JSON so each field can be validated
// independently.
type rawMetadata struct {
	Description any             `json:"description"`
	Priority    any             `json:"priority"`
	Icon        any             `json:"icon"`
	Link        any             `json:"link"`
	Quantity    any             `json:"quantity"`
	Subtasks    json.RawMessage `json:"subtasks"`
}

func decodeMetadata(desc string) (Metadata, error) {
	if desc == "" {
		return DefaultMetadata(), nil
	}
	var raw rawMetadata
	if err := json.Unmarshal([]byte(desc), &raw); err != nil {
		return Metadata{}, fmt.Errorf("metadata is not a JSON object: %w", err)
	}

	m := DefaultMetadata()
	if s, ok := raw.Description.(string); ok {
		m.Description = sanitize.Text(s)
	}
	m.Priority = decodePriority(raw.Priority)
	if s, ok := raw.Icon.(string); ok {
		m.Icon = s
	}
	if s, ok := raw.Link.(string); ok {
		m.Link = sanitize.URL(s)
	}
	if s, ok := raw.Quantity.(string); ok {
		m.Quantity = sanitize.Text(s)
	}
	if len(raw.Subtasks) > 0 {
		// Shallow trust boundary: elements are only sanitized on the
		// mutation paths that create or edit them, not on decode.
		var subs []Subtask
		if err := json.Unmarshal(raw.Subtasks, &subs); err == nil && subs != nil {
			m.Subtasks = subs
		}
	}
	return m, nil
}

func decodePriority(v any) string {
	switch p := v.(type) {
	case string:
		return sanitize.Priority(p)
	case float64:
		return strconv.Itoa(sanitize.ClampPriority(int(p)))
	default:
		return sanitize.DefaultPriority
	}
}

// Encode serializes the metadata back into description text. Fields are
// written verbatim; callers are responsible for having sanitized them.
// Empty optional fields produce no key at all, so a shopping item with only
// a quantity encodes as {"quantity":"..."}.
func (m Metadata) Encode() string {
	b, err := json.Marshal(m)
	if err != nil {
		// Marshal of a struct of strings and subtask slices cannot fail.
		return "{}"
	}
	return string(b)
}

// NewSubtaskUID generates a client-side sub-task id: time-based with a
// random suffix. Collisions are negligible; the id is not cryptographic.
func NewSubtaskUID() string {
	return fmt.Sprintf("sub_%d_%s", time.Now().UnixMilli(), randBase36(9))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}

// WithSubtaskAdded returns a copy of m with a new sub-task appended. The
// summary is sanitized here, at the write path.
func (m Metadata) WithSubtaskAdded(summary string) Metadata {
	subs := make([]Subtask, 0, len(m.Subtasks)+1)
	subs = append(subs, m.Subtasks...)
	subs = append(subs, Subtask{
		UID:     NewSubtaskUID(),
		Summary: sanitize.Text(summary),
		Status:  StatusNeedsAction,
	})
	m.Subtasks = subs
	return m
}

// WithSubtaskToggled returns a copy of m with the status of the sub-task
// identified by uid flipped, and reports whether every remaining sub-task
// is completed. An empty list counts as all complete.
func (m Metadata) WithSubtaskToggled(uid string) (Metadata, bool) {
	allComplete := true
	subs := make([]Subtask, len(m.Subtasks))
	for i, sub := range m.Subtasks {
		if sub.UID == uid {
			sub.Status = sub.Status.Toggled()
		}
		if sub.Status == StatusNeedsAction {
			allComplete = false
		}
		subs[i] = sub
	}
	m.Subtasks = subs
	return m, allComplete
}

// WithSubtaskRemoved returns a copy of m without the sub-task identified
// by uid.
func (m Metadata) WithSubtaskRemoved(uid string) Metadata {
	subs := make([]Subtask, 0, len(m.Subtasks))
	for _, sub := range m.Subtasks {
		if sub.UID != uid {
			subs = append(subs, sub)
		}
	}
	m.Subtasks = subs
	return m
}

// SubtaskProgress reports completed count, total count and completion ratio.
// The ratio is 0 for an empty list.
func (m Metadata) SubtaskProgress() (completed, total int, ratio float64) {
	total = len(m.Subtasks)
	for _, sub := range m.Subtasks {
		if sub.Status == StatusCompleted {
			completed++
		}
	}
	if total > 0 {
		ratio = float64(completed) / float64(total)
	}
	return completed, total, ratio
}
