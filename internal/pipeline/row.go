package pipeline

// KeyValue é um componente da chave de uma linha agrupada. Value é int64, string ou nil.
type KeyValue struct {
	Name  string
	Value any
}

// Row é uma linha produzida por um executor: os componentes da chave na ordem do plano
// e os valores dos acumuladores.
type Row struct {
	Key    []KeyValue
	Values map[string]float64
}

func (r Row) key(name string) (any, bool) {
	for _, kv := range r.Key {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// Int retorna o componente numérico da chave, ou 0 se ausente
func (r Row) Int(name string) int {
	v, _ := r.key(name)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// String retorna o componente textual da chave, ou nil se ausente ou nulo
func (r Row) String(name string) *string {
	v, _ := r.key(name)
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
