// Package pipeline descreve as agregações como dados (filtros, agrupamentos, acumuladores e
// ordenação), independente do motor que vai executá-las.
package pipeline

import (
	"fmt"
	"regexp"

	"github.com/vfg2006/commerce-analytics-api/internal/domain"
)

// KeyKind define como o valor de um componente da chave de agrupamento é obtido
type KeyKind int

const (
	// KeyDatePart extrai um componente (ano, mês, ...) do timestamp em Field
	KeyDatePart KeyKind = iota
	// KeyField usa o valor bruto do campo Field
	KeyField
	// KeyMonth formata o timestamp em Field como YYYY-MM
	KeyMonth
	// KeyCarry reaproveita o componente From da chave do estágio anterior
	KeyCarry
)

type KeyExpr struct {
	Name  string
	Kind  KeyKind
	Field string
	Part  domain.DatePart
	From  string
}

// AccKind define a operação de um acumulador
type AccKind int

const (
	AccCount AccKind = iota
	// AccSum soma o valor numérico de Field (campo do documento ou acumulador anterior)
	AccSum
	AccAvg
	// AccCountIf conta as linhas em que Field é maior que Threshold
	AccCountIf
)

type Accumulator struct {
	Name      string
	Kind      AccKind
	Field     string
	Threshold float64
}

// Group é um estágio de agrupamento. O primeiro estágio lê documentos, os seguintes leem
// as linhas produzidas pelo estágio anterior.
type Group struct {
	Keys         []KeyExpr
	Accumulators []Accumulator
}

// FilterKind define um filtro aplicado aos documentos antes do primeiro agrupamento
type FilterKind int

const (
	// FilterHasTimestamp descarta documentos sem timestamp válido em Field
	FilterHasTimestamp FilterKind = iota
)

type Filter struct {
	Kind  FilterKind
	Field string
}

type SortKey struct {
	Name string
	Desc bool
}

type Plan struct {
	Name       string
	Collection domain.Collection
	Filters    []Filter
	Stages     []Group
	Sort       []SortKey
}

var fieldPathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Validate garante que o plano pode ser traduzido com segurança por qualquer executor
func (p Plan) Validate() error {
	if p.Collection == "" {
		return fmt.Errorf("pipeline %s: coleção não informada", p.Name)
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("pipeline %s: nenhum estágio de agrupamento", p.Name)
	}

	guarded := make(map[string]bool, len(p.Filters))
	for _, f := range p.Filters {
		if !fieldPathPattern.MatchString(f.Field) {
			return fmt.Errorf("pipeline %s: campo de filtro inválido %q", p.Name, f.Field)
		}
		if f.Kind == FilterHasTimestamp {
			guarded[f.Field] = true
		}
	}

	var previous map[string]bool
	for i, stage := range p.Stages {
		if len(stage.Keys) == 0 {
			return fmt.Errorf("pipeline %s: estágio %d sem chave", p.Name, i)
		}
		names := make(map[string]bool)
		for _, key := range stage.Keys {
			if !fieldPathPattern.MatchString(key.Name) || names[key.Name] {
				return fmt.Errorf("pipeline %s: nome de chave inválido %q", p.Name, key.Name)
			}
			names[key.Name] = true

			if key.Kind == KeyCarry {
				if i == 0 || !previous[key.From] {
					return fmt.Errorf("pipeline %s: chave %q referencia componente inexistente %q", p.Name, key.Name, key.From)
				}
				continue
			}
			if i > 0 {
				return fmt.Errorf("pipeline %s: estágio %d só aceita chaves herdadas", p.Name, i)
			}
			if !fieldPathPattern.MatchString(key.Field) {
				return fmt.Errorf("pipeline %s: campo inválido %q", p.Name, key.Field)
			}
			// O executor SQL converte o campo sem checar o valor, então ele precisa do filtro de timestamp
			if (key.Kind == KeyDatePart || key.Kind == KeyMonth) && !guarded[key.Field] {
				return fmt.Errorf("pipeline %s: chave de data %q sem filtro de timestamp em %q", p.Name, key.Name, key.Field)
			}
		}
		for _, acc := range stage.Accumulators {
			if !fieldPathPattern.MatchString(acc.Name) || names[acc.Name] {
				return fmt.Errorf("pipeline %s: nome de acumulador inválido %q", p.Name, acc.Name)
			}
			names[acc.Name] = true

			if acc.Kind == AccCount {
				continue
			}
			if i > 0 && !previous[acc.Field] {
				return fmt.Errorf("pipeline %s: acumulador %q referencia campo inexistente %q", p.Name, acc.Name, acc.Field)
			}
			if i == 0 && !fieldPathPattern.MatchString(acc.Field) {
				return fmt.Errorf("pipeline %s: campo inválido %q", p.Name, acc.Field)
			}
		}
		previous = names
	}

	for _, s := range p.Sort {
		if !previous[s.Name] {
			return fmt.Errorf("pipeline %s: ordenação por campo inexistente %q", p.Name, s.Name)
		}
	}

	return nil
}

// Output retorna os nomes das colunas produzidas pelo último estágio: chaves e depois acumuladores
func (p Plan) Output() (keys []string, values []string) {
	if len(p.Stages) == 0 {
		return nil, nil
	}
	last := p.Stages[len(p.Stages)-1]
	for _, k := range last.Keys {
		keys = append(keys, k.Name)
	}
	for _, a := range last.Accumulators {
		values = append(values, a.Name)
	}
	return keys, values
}
