package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vfg2006/commerce-analytics-api/infrastructure/database/memory"
	"github.com/vfg2006/commerce-analytics-api/internal/pipeline"
	"github.com/vfg2006/commerce-analytics-api/pkg/utils"
)

// cancelCheckEvery define de quantos em quantos documentos o contexto é verificado
const cancelCheckEvery = 1024

type memoryAggregationRepository struct {
	store *memory.Store
}

// NewMemoryAggregationRepository executa os planos sobre documentos mantidos em memória
func NewMemoryAggregationRepository(store *memory.Store) AggregationRepository {
	return &memoryAggregationRepository{
		store: store,
	}
}

func (r *memoryAggregationRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *memoryAggregationRepository) Aggregate(ctx context.Context, plan pipeline.Plan) ([]pipeline.Row, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	first := plan.Stages[0]
	table := newGroupTable(first)

	for i, doc := range r.store.Documents(plan.Collection) {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !matchesFilters(doc, plan.Filters) {
			continue
		}

		key, ok := documentKey(doc, first.Keys)
		if !ok {
			continue
		}
		table.add(key, func(field string) float64 {
			return utils.ParseAmount(doc.Get(field).Value())
		})
	}

	rows := table.result()
	for _, stage := range plan.Stages[1:] {
		next := newGroupTable(stage)
		for _, row := range rows {
			next.add(carryKey(row, stage.Keys), func(field string) float64 {
				return row.Values[field]
			})
		}
		rows = next.result()
	}

	sortRows(rows, plan.Sort)
	return rows, nil
}

func matchesFilters(doc gjson.Result, filters []pipeline.Filter) bool {
	for _, f := range filters {
		switch f.Kind {
		case pipeline.FilterHasTimestamp:
			if _, ok := utils.ParseTimestamp(doc.Get(f.Field).Value()); !ok {
				return false
			}
		}
	}
	return true
}

// documentKey extrai a chave de agrupamento. Retorna false se um timestamp necessário for inválido.
func documentKey(doc gjson.Result, keys []pipeline.KeyExpr) ([]pipeline.KeyValue, bool) {
	out := make([]pipeline.KeyValue, 0, len(keys))
	for _, key := range keys {
		switch key.Kind {
		case pipeline.KeyDatePart, pipeline.KeyMonth:
			ts, ok := utils.ParseTimestamp(doc.Get(key.Field).Value())
			if !ok {
				return nil, false
			}
			if key.Kind == pipeline.KeyMonth {
				out = append(out, pipeline.KeyValue{Name: key.Name, Value: utils.MonthString(ts)})
			} else {
				out = append(out, pipeline.KeyValue{Name: key.Name, Value: int64(key.Part.Extract(ts))})
			}
		case pipeline.KeyField:
			out = append(out, pipeline.KeyValue{Name: key.Name, Value: fieldValue(doc.Get(key.Field))})
		default:
			return nil, false
		}
	}
	return out, true
}

// fieldValue normaliza o valor como texto, do mesmo jeito que o operador #>> do Postgres
func fieldValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

func carryKey(row pipeline.Row, keys []pipeline.KeyExpr) []pipeline.KeyValue {
	out := make([]pipeline.KeyValue, 0, len(keys))
	for _, key := range keys {
		var value any
		for _, kv := range row.Key {
			if kv.Name == key.From {
				value = kv.Value
				break
			}
		}
		out = append(out, pipeline.KeyValue{Name: key.Name, Value: value})
	}
	return out
}

type groupTable struct {
	stage  pipeline.Group
	index  map[string]int
	keys   [][]pipeline.KeyValue
	sums   [][]float64
	counts [][]float64
}

func newGroupTable(stage pipeline.Group) *groupTable {
	return &groupTable{
		stage: stage,
		index: make(map[string]int),
	}
}

func (t *groupTable) add(key []pipeline.KeyValue, value func(field string) float64) {
	id := groupID(key)
	i, ok := t.index[id]
	if !ok {
		i = len(t.keys)
		t.index[id] = i
		t.keys = append(t.keys, key)
		t.sums = append(t.sums, make([]float64, len(t.stage.Accumulators)))
		t.counts = append(t.counts, make([]float64, len(t.stage.Accumulators)))
	}

	for a, acc := range t.stage.Accumulators {
		switch acc.Kind {
		case pipeline.AccCount:
			t.counts[i][a]++
		case pipeline.AccSum, pipeline.AccAvg:
			t.sums[i][a] += value(acc.Field)
			t.counts[i][a]++
		case pipeline.AccCountIf:
			if value(acc.Field) > acc.Threshold {
				t.counts[i][a]++
			}
		}
	}
}

func (t *groupTable) result() []pipeline.Row {
	rows := make([]pipeline.Row, 0, len(t.keys))
	for i, key := range t.keys {
		values := make(map[string]float64, len(t.stage.Accumulators))
		for a, acc := range t.stage.Accumulators {
			switch acc.Kind {
			case pipeline.AccCount, pipeline.AccCountIf:
				values[acc.Name] = t.counts[i][a]
			case pipeline.AccSum:
				values[acc.Name] = t.sums[i][a]
			case pipeline.AccAvg:
				values[acc.Name] = t.sums[i][a] / t.counts[i][a]
			}
		}
		rows = append(rows, pipeline.Row{Key: key, Values: values})
	}
	return rows
}

func groupID(key []pipeline.KeyValue) string {
	var b strings.Builder
	for _, kv := range key {
		fmt.Fprintf(&b, "%T:%v|", kv.Value, kv.Value)
	}
	return b.String()
}

func sortRows(rows []pipeline.Row, keys []pipeline.SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareColumn(rows[i], rows[j], k.Name)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareColumn(a, b pipeline.Row, name string) int {
	if va, ok := a.Values[name]; ok {
		vb := b.Values[name]
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	}
	return compareKeyValues(keyValue(a, name), keyValue(b, name))
}

func keyValue(row pipeline.Row, name string) any {
	for _, kv := range row.Key {
		if kv.Name == name {
			return kv.Value
		}
	}
	return nil
}

// compareKeyValues ordena nulos primeiro, depois números e por fim textos
func compareKeyValues(a, b any) int {
	rank := func(v any) int {
		switch v.(type) {
		case nil:
			return 0
		case int64:
			return 1
		default:
			return 2
		}
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch va := a.(type) {
	case int64:
		vb := b.(int64)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
	case string:
		vb, _ := b.(string)
		return strings.Compare(va, vb)
	}
	return 0
}
