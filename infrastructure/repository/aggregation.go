package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/commerce-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/pipeline"
	"github.com/vfg2006/commerce-analytics-api/pkg/utils"
)

// documentColumn é a coluna jsonb que guarda o documento sincronizado
const documentColumn = "doc"

// AggregationRepository executa planos de agregação sobre uma coleção de documentos
type AggregationRepository interface {
	Aggregate(ctx context.Context, plan pipeline.Plan) ([]pipeline.Row, error)
	Ping(ctx context.Context) error
}

type pinger interface {
	PingContext(ctx context.Context) error
}

type aggregationRepository struct {
	conn        postgres.Queryer
	collections map[domain.Collection]string
}

// NewAggregationRepository traduz os planos para SQL sobre tabelas (id, doc jsonb).
// collections mapeia o nome lógico da coleção para o nome da tabela.
func NewAggregationRepository(conn postgres.Queryer, collections map[domain.Collection]string) AggregationRepository {
	return &aggregationRepository{
		conn:        conn,
		collections: collections,
	}
}

func (r *aggregationRepository) Ping(ctx context.Context) error {
	p, ok := r.conn.(pinger)
	if !ok {
		return nil
	}
	return p.PingContext(ctx)
}

func (r *aggregationRepository) Aggregate(ctx context.Context, plan pipeline.Plan) ([]pipeline.Row, error) {
	query, args, err := r.buildQuery(plan)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return nil, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	keys, values := plan.Output()
	result := make([]pipeline.Row, 0)
	for rows.Next() {
		row, err := scanRow(rows, keys, values)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha agregada: %w", err)
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return result, nil
}

func (r *aggregationRepository) buildQuery(plan pipeline.Plan) (string, []any, error) {
	if err := plan.Validate(); err != nil {
		return "", nil, err
	}

	table, ok := r.collections[plan.Collection]
	if !ok || table == "" {
		return "", nil, fmt.Errorf("coleção %s sem tabela configurada", plan.Collection)
	}

	var query squirrel.SelectBuilder
	for i, stage := range plan.Stages {
		columns := make([]string, 0, len(stage.Keys)+len(stage.Accumulators))
		groupBy := make([]string, 0, len(stage.Keys))

		for k, key := range stage.Keys {
			columns = append(columns, keySQL(key)+" AS "+pq.QuoteIdentifier(key.Name))
			groupBy = append(groupBy, strconv.Itoa(k+1))
		}
		for _, acc := range stage.Accumulators {
			columns = append(columns, accumulatorSQL(acc, i == 0)+" AS "+pq.QuoteIdentifier(acc.Name))
		}

		next := squirrel.Select(columns...)
		if i == 0 {
			next = next.From(pq.QuoteIdentifier(table))
			for _, f := range plan.Filters {
				next = next.Where(filterSQL(f))
			}
		} else {
			next = next.FromSelect(query, fmt.Sprintf("s%d", i))
		}
		query = next.GroupBy(groupBy...)
	}

	orderBy := make([]string, 0, len(plan.Sort))
	for _, s := range plan.Sort {
		direction := "ASC"
		if s.Desc {
			direction = "DESC"
		}
		orderBy = append(orderBy, pq.QuoteIdentifier(s.Name)+" "+direction)
	}

	return query.
		OrderBy(orderBy...).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// jsonPath retorna o literal de caminho jsonb, ex.: '{total_price_set,shop_money,amount}'.
// Os campos já foram validados por Plan.Validate.
func jsonPath(field string) string {
	return "'{" + strings.ReplaceAll(field, ".", ",") + "}'"
}

func jsonNode(field string) string {
	return documentColumn + " #> " + jsonPath(field)
}

func jsonText(field string) string {
	return documentColumn + " #>> " + jsonPath(field)
}

// timestampSQL converte o campo em timestamp UTC; números são epoch em milissegundos
// e texto sem fuso é lido como UTC, igual a utils.ParseTimestamp.
// Só é avaliado em linhas que passaram por timestampGuardSQL.
func timestampSQL(field string) string {
	node, text := jsonNode(field), jsonText(field)
	return fmt.Sprintf(
		"(CASE WHEN jsonb_typeof(%s) = 'number' THEN to_timestamp((%s)::float8 / 1000) AT TIME ZONE 'UTC'"+
			" WHEN %s ~ '(Z|[-+][0-9]{2}:[0-9]{2})$' THEN (%s)::timestamptz AT TIME ZONE 'UTC'"+
			" ELSE (%s)::timestamp END)",
		node, text, text, text, text,
	)
}

// sqlPattern escapa o "?" da expressão regular como "??" para não virar placeholder no squirrel
func sqlPattern(pattern string) string {
	return strings.ReplaceAll(pattern, "?", "??")
}

// amountSQL aplica a mesma coerção de utils.ParseAmount: texto inválido ou ausente vale 0
func amountSQL(field string) string {
	pattern := sqlPattern(utils.AmountPattern)
	trimmed := fmt.Sprintf("btrim(%s, E' \\t\\n\\r')", jsonText(field))
	return fmt.Sprintf(
		"(CASE WHEN jsonb_typeof(%s) = 'number' THEN (%s)::float8 WHEN jsonb_typeof(%s) = 'string' AND %s ~ '%s' THEN (%s)::float8 ELSE 0 END)",
		jsonNode(field), jsonText(field), jsonNode(field), trimmed, pattern, trimmed,
	)
}

// timestampGuardSQL aceita os mesmos valores que utils.ParseTimestamp: epoch dentro dos limites
// ou texto que casa com utils.TimestampPattern e cujo dia existe no mês.
// Os CASE aninhados garantem que nenhum cast rode antes da validação correspondente.
func timestampGuardSQL(field string) string {
	node, text := jsonNode(field), jsonText(field)
	year := fmt.Sprintf("substr(%s, 1, 4)::int", text)
	month := fmt.Sprintf("substr(%s, 6, 2)::int", text)
	day := fmt.Sprintf("substr(%s, 9, 2)::int", text)

	leap := fmt.Sprintf("((%[1]s %% 4 = 0 AND %[1]s %% 100 <> 0) OR %[1]s %% 400 = 0)", year)
	daysInMonth := fmt.Sprintf(
		"(CASE %s WHEN 2 THEN (CASE WHEN %s THEN 29 ELSE 28 END) WHEN 4 THEN 30 WHEN 6 THEN 30 WHEN 9 THEN 30 WHEN 11 THEN 30 ELSE 31 END)",
		month, leap,
	)

	return fmt.Sprintf(
		"(CASE jsonb_typeof(%s) WHEN 'number' THEN (%s)::numeric BETWEEN %d AND %d"+
			" WHEN 'string' THEN (CASE WHEN %s ~ '%s' THEN %s <= %s ELSE FALSE END)"+
			" ELSE FALSE END)",
		node, node, utils.MinEpochMillis, utils.MaxEpochMillis,
		text, sqlPattern(utils.TimestampPattern), day, daysInMonth,
	)
}

func filterSQL(f pipeline.Filter) string {
	switch f.Kind {
	case pipeline.FilterHasTimestamp:
		return timestampGuardSQL(f.Field)
	}
	return "TRUE"
}

func keySQL(key pipeline.KeyExpr) string {
	switch key.Kind {
	case pipeline.KeyDatePart:
		return fmt.Sprintf("EXTRACT(%s FROM %s)::int", strings.ToUpper(string(key.Part)), timestampSQL(key.Field))
	case pipeline.KeyMonth:
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", timestampSQL(key.Field))
	case pipeline.KeyField:
		return jsonText(key.Field)
	case pipeline.KeyCarry:
		return pq.QuoteIdentifier(key.From)
	}
	return "NULL"
}

// accumulatorSQL lê campos do documento no primeiro estágio e colunas do estágio anterior nos demais
func accumulatorSQL(acc pipeline.Accumulator, fromDocument bool) string {
	value := pq.QuoteIdentifier(acc.Field)
	if fromDocument {
		value = amountSQL(acc.Field)
	}

	switch acc.Kind {
	case pipeline.AccSum:
		return "COALESCE(SUM(" + value + "), 0)"
	case pipeline.AccAvg:
		return "AVG(" + value + ")"
	case pipeline.AccCountIf:
		threshold := strconv.FormatFloat(acc.Threshold, 'f', -1, 64)
		return "SUM(CASE WHEN " + value + " > " + threshold + " THEN 1 ELSE 0 END)"
	}
	return "COUNT(*)"
}

func scanRow(rows *sql.Rows, keys, values []string) (pipeline.Row, error) {
	dest := make([]any, len(keys)+len(values))
	ptrs := make([]any, len(dest))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return pipeline.Row{}, err
	}

	row := pipeline.Row{
		Key:    make([]pipeline.KeyValue, 0, len(keys)),
		Values: make(map[string]float64, len(values)),
	}
	for i, name := range keys {
		row.Key = append(row.Key, pipeline.KeyValue{Name: name, Value: normalizeKey(dest[i])})
	}
	for i, name := range values {
		f, err := toFloat(dest[len(keys)+i])
		if err != nil {
			return pipeline.Row{}, fmt.Errorf("coluna %s: %w", name, err)
		}
		row.Values[name] = f
	}
	return row, nil
}

func normalizeKey(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return v
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case []byte:
		return strconv.ParseFloat(string(t), 64)
	case string:
		return strconv.ParseFloat(t, 64)
	}
	return 0, fmt.Errorf("tipo inesperado %T", v)
}
