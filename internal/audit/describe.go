package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/crucial707/printdesk/internal/models"
)

// NoValue fills a comparison column that has no value.
const NoValue = "-"

type verbs struct {
	past    string // "Creó"
	passive string // "Se creó"
}

type nouns struct {
	indefinite string // "una máquina"
	definite   string // "la máquina"
	label      string // "Máquina"
}

var actionVerbs = map[models.Action]verbs{
	models.ActionCreate: {"Creó", "Se creó"},
	models.ActionUpdate: {"Actualizó", "Se actualizó"},
	models.ActionDelete: {"Eliminó", "Se eliminó"},
}

var resourceNouns = map[models.Resource]nouns{
	models.ResourceMachines: {"una máquina", "la máquina", "Máquina"},
	models.ResourceTickets:  {"un ticket", "el ticket", "Ticket"},
	models.ResourceUsers:    {"un usuario", "el usuario", "Usuario"},
}

func verbFor(a models.Action) verbs {
	if v, ok := actionVerbs[a]; ok {
		return v
	}
	return verbs{"Realizó una acción en", "Se realizó una acción en"}
}

func nounFor(r models.Resource) nouns {
	if n, ok := resourceNouns[r]; ok {
		return n
	}
	return nouns{"recurso desconocido", "recurso desconocido", "Desconocido"}
}

// ActionPhrase is the short human phrase for a record, e.g. "Creó una máquina".
func ActionPhrase(a models.Action, r models.Resource) string {
	return verbFor(a).past + " " + nounFor(r).indefinite
}

// ActionLabel is the one-word action column value used in exports.
func ActionLabel(a models.Action) string {
	switch a {
	case models.ActionCreate:
		return "Creación"
	case models.ActionUpdate:
		return "Actualización"
	case models.ActionDelete:
		return "Eliminación"
	}
	return string(a)
}

// ResourceLabel is the capitalized resource name, e.g. "Máquina".
func ResourceLabel(r models.Resource) string {
	return nounFor(r).label
}

// Summary is the one-line description shown in lists, e.g. "Se creó la máquina con el ID: 7".
func Summary(rec models.AuditRecord) string {
	return fmt.Sprintf("%s %s con el ID: %d", verbFor(rec.Action).passive, nounFor(rec.Resource).definite, rec.ResourceID)
}

// FieldChange is one row of the old/new comparison of a record.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Changes lists the fields of a record side by side, sorted by field name.
// Update compares the union of both images; create and delete show the one image they have.
func Changes(rec models.AuditRecord) []FieldChange {
	before, after := rec.Details.OldData, rec.Details.NewData
	switch rec.Action {
	case models.ActionCreate:
		before = nil
	case models.ActionDelete:
		after = nil
	}

	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	changes := make([]FieldChange, 0, len(keys))
	for _, k := range sortedKeys(keys) {
		changes = append(changes, FieldChange{
			Field: k,
			Old:   lookup(before, k),
			New:   lookup(after, k),
		})
	}
	return changes
}

// DetailText is the free-text recount used in the spreadsheet "Detalles" column.
func DetailText(rec models.AuditRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s con el ID: %d", ActionPhrase(rec.Action, rec.Resource), rec.ResourceID)

	before, after := rec.Details.OldData, rec.Details.NewData
	if len(before) == 0 && len(after) == 0 {
		b.WriteString(" (detalles no disponibles)")
		return b.String()
	}
	b.WriteString(".")
	writeImage(&b, "Datos antiguos:", before)
	writeImage(&b, "Datos nuevos:", after)
	return b.String()
}

func writeImage(b *strings.Builder, title string, img map[string]any) {
	if len(img) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	keys := make(map[string]struct{}, len(img))
	for k := range img {
		keys[k] = struct{}{}
	}
	for _, k := range sortedKeys(keys) {
		fmt.Fprintf(b, "\n  - %s: %s", k, FormatValue(img[k]))
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookup(img map[string]any, key string) string {
	v, ok := img[key]
	if !ok {
		return NoValue
	}
	return FormatValue(v)
}

// FormatValue renders a snapshot value as its JSON encoding ("Resuelto" keeps its quotes, 42 does not).
func FormatValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// FormatTimestamp renders t in loc as es-ES short date and time, e.g. "18 oct 2026, 14:05".
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return fmt.Sprintf("%d %s %d, %02d:%02d", t.Day(), shortMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
