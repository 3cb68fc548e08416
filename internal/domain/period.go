package domain

import (
	"cmp"
	"time"
)

// PeriodKey identifica um bucket de tempo. Componentes ausentes ficam zerados e são omitidos no JSON.
type PeriodKey struct {
	Year    int `json:"year"`
	Month   int `json:"month,omitempty"`
	Quarter int `json:"quarter,omitempty"`
	Day     int `json:"day,omitempty"`
}

// NewPeriodKey calcula a chave do período de um timestamp para o intervalo informado
func NewPeriodKey(t time.Time, interval Interval) PeriodKey {
	key := PeriodKey{}
	for _, part := range interval.Parts() {
		key.Set(part, part.Extract(t))
	}
	return key
}

// Set atribui o valor de um componente da chave
func (k *PeriodKey) Set(part DatePart, value int) {
	switch part {
	case DatePartYear:
		k.Year = value
	case DatePartMonth:
		k.Month = value
	case DatePartQuarter:
		k.Quarter = value
	case DatePartDay:
		k.Day = value
	}
}

// Compare ordena por ano, depois mês ou trimestre, depois dia
func (k PeriodKey) Compare(other PeriodKey) int {
	if c := cmp.Compare(k.Year, other.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Month, other.Month); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Quarter, other.Quarter); c != 0 {
		return c
	}
	return cmp.Compare(k.Day, other.Day)
}

func (k PeriodKey) Less(other PeriodKey) bool {
	return k.Compare(other) < 0
}
