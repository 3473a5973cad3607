// internal/periods/periods.go
package periods

// Key - внутренний ключ периода, используемый в таблицах JSON-сервера.
type Key string

const (
	CurrentMonth  Key = "cemois"
	PreviousMonth Key = "moisdernier"
	CurrentYear   Key = "cetteannee"
	PreviousYear  Key = "anneederniere"
)

// Default - период, выбранный при открытии панели.
const Default = CurrentMonth

type period struct {
	key     Key
	label   string
	display string
}

// Порядок совпадает с порядком в выпадающем списке.
var table = []period{
	{CurrentMonth, "ce mois ci", "Ce mois-ci"},
	{PreviousMonth, "mois dernier", "Mois dernier"},
	{CurrentYear, "cette année", "Cette année"},
	{PreviousYear, "année dernière", "Année dernière"},
}

// LabelToKey переводит подпись периода во внутренний ключ.
// Неизвестная подпись дает ("", false).
func LabelToKey(label string) (Key, bool) {
	for _, p := range table {
		if p.label == label {
			return p.key, true
		}
	}
	return "", false
}

// KeyToLabel - обратное отображение для LabelToKey.
func KeyToLabel(key Key) (string, bool) {
	for _, p := range table {
		if p.key == key {
			return p.label, true
		}
	}
	return "", false
}

// DisplayLabel возвращает подпись для селектора периода ("Ce mois-ci", ...).
func DisplayLabel(key Key) string {
	for _, p := range table {
		if p.key == key {
			return p.display
		}
	}
	return ""
}

// Keys возвращает все ключи в порядке отображения.
func Keys() []Key {
	out := make([]Key, len(table))
	for i, p := range table {
		out[i] = p.key
	}
	return out
}

// Labels возвращает все подписи в порядке отображения.
func Labels() []string {
	out := make([]string, len(table))
	for i, p := range table {
		out[i] = p.label
	}
	return out
}

// Resolve принимает как подпись, так и ключ.
func Resolve(s string) (Key, bool) {
	if k, ok := LabelToKey(s); ok {
		return k, true
	}
	if _, ok := KeyToLabel(Key(s)); ok {
		return Key(s), true
	}
	return "", false
}
