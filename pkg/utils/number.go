package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// AmountPattern é o formato aceito para valores monetários armazenados como texto.
// A mesma expressão é usada na tradução SQL para manter a coerção idêntica nos dois motores.
const AmountPattern = `^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?$`

var amountRegexp = regexp.MustCompile(AmountPattern)

// ParseAmount converte o valor monetário de um documento em float64.
// Números são usados como estão, textos são convertidos após remover espaços.
// Qualquer outro valor (ausente, booleano, objeto, texto inválido, NaN ou Inf) vale 0.
func ParseAmount(value any) float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		v = strings.TrimSpace(v)
		if !amountRegexp.MatchString(v) {
			return 0
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
