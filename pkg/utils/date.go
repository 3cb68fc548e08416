package utils

import (
	"regexp"
	"time"
)

// TimestampPattern é o formato aceito para created_at armazenado como texto: data, data e hora
// separadas por "T" (com fração e fuso opcionais) ou por espaço (sem fuso).
// A mesma expressão é usada na tradução SQL para que os dois motores descartem os mesmos documentos.
// O ano 0000 e fusos acima de 15:59 ficam de fora porque o PostgreSQL não os aceita.
const TimestampPattern = `^(000[1-9]|00[1-9][0-9]|0[1-9][0-9]{2}|[1-9][0-9]{3})-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])` +
	`(T([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9](\.[0-9]{1,9})?(Z|[-+](0[0-9]|1[0-5]):[0-5][0-9])?` +
	`| ([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9](\.[0-9]{1,9})?)?$`

// Limites de epoch em milissegundos: 0001-01-01T00:00:00Z até 9999-12-31T23:59:59.999Z
const (
	MinEpochMillis int64 = -62135596800000
	MaxEpochMillis int64 = 253402300799999
)

var timestampRegexp = regexp.MustCompile(TimestampPattern)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// ParseTimestamp converte o created_at de um documento em UTC.
// Números são epoch em milissegundos; textos precisam casar com TimestampPattern e
// ter dia válido para o mês. Texto sem fuso é lido como UTC.
func ParseTimestamp(value any) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		if v < float64(MinEpochMillis) || v > float64(MaxEpochMillis) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return epochMillis(v)
	case int:
		return epochMillis(int64(v))
	case time.Time:
		return v.UTC(), true
	case string:
		if !timestampRegexp.MatchString(v) {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func epochMillis(v int64) (time.Time, bool) {
	if v < MinEpochMillis || v > MaxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(v).UTC(), true
}

// MonthString formata o timestamp como YYYY-MM
func MonthString(t time.Time) string {
	return t.UTC().Format("2006-01")
}
