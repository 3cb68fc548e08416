package domain

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidInterval é retornado quando o parâmetro interval não é reconhecido
var ErrInvalidInterval = errors.New("invalid interval specified")

// Interval representa a granularidade usada para agrupar registros por período
type Interval string

const (
	IntervalDaily     Interval = "daily"
	IntervalMonthly   Interval = "monthly"
	IntervalQuarterly Interval = "quarterly"
	IntervalYearly    Interval = "yearly"
)

// DatePart é um componente extraído de um timestamp para compor a chave do período
type DatePart string

const (
	DatePartYear    DatePart = "year"
	DatePartMonth   DatePart = "month"
	DatePartQuarter DatePart = "quarter"
	DatePartDay     DatePart = "day"
)

var intervalParts = map[Interval][]DatePart{
	IntervalDaily:     {DatePartYear, DatePartMonth, DatePartDay},
	IntervalMonthly:   {DatePartYear, DatePartMonth},
	IntervalQuarterly: {DatePartYear, DatePartQuarter},
	IntervalYearly:    {DatePartYear},
}

// ParseInterval valida o valor recebido na query string
func ParseInterval(value string) (Interval, error) {
	interval := Interval(value)
	if _, ok := intervalParts[interval]; !ok {
		return "", ErrInvalidInterval
	}
	return interval, nil
}

// Parts retorna os componentes da chave do período, do mais para o menos significativo.
// A mesma ordem é usada para a ordenação ascendente dos resultados.
func (i Interval) Parts() []DatePart {
	parts, ok := intervalParts[i]
	if !ok {
		return nil
	}
	out := make([]DatePart, len(parts))
	copy(out, parts)
	return out
}

// Quarter retorna o trimestre (1-4) de um mês 1-indexado
func Quarter(month int) int {
	return int(math.Ceil(float64(month) / 3))
}

// Extract retorna o valor do componente para o timestamp, sempre em UTC
func (p DatePart) Extract(t time.Time) int {
	t = t.UTC()
	switch p {
	case DatePartYear:
		return t.Year()
	case DatePartMonth:
		return int(t.Month())
	case DatePartQuarter:
		return Quarter(int(t.Month()))
	case DatePartDay:
		return t.Day()
	}
	return 0
}
