// Package memory mantém coleções de documentos JSON em memória para o modo sem banco de dados.
package memory

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Store guarda os documentos de cada coleção. É somente leitura depois de carregado.
type Store struct {
	mu          sync.RWMutex
	collections map[domain.Collection][]gjson.Result
}

func NewStore() *Store {
	return &Store{
		collections: make(map[domain.Collection][]gjson.Result),
	}
}

// LoadFiles carrega as coleções em paralelo. Cada arquivo pode ser um array JSON ou NDJSON.
func LoadFiles(ctx context.Context, files map[domain.Collection]string) (*Store, error) {
	store := NewStore()
	g, _ := errgroup.WithContext(ctx)

	for collection, path := range files {
		if path == "" {
			continue
		}
		collection, path := collection, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "erro ao ler coleção %s de %s", collection, path)
			}
			if err := store.Load(collection, data); err != nil {
				return errors.Wrapf(err, "erro ao carregar coleção %s de %s", collection, path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return store, nil
}

// Load adiciona documentos a uma coleção a partir de um array JSON ou de NDJSON
func (s *Store) Load(collection domain.Collection, data []byte) error {
	docs, err := parseDocuments(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], docs...)
	return nil
}

// Documents retorna os documentos da coleção. O slice não deve ser modificado.
func (s *Store) Documents(collection domain.Collection) []gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[collection]
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func parseDocuments(data []byte) ([]gjson.Result, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		if !gjson.ValidBytes(data) {
			return nil, errors.New("array JSON inválido")
		}
		var docs []gjson.Result
		for _, doc := range gjson.ParseBytes(data).Array() {
			if !doc.IsObject() {
				return nil, errors.Errorf("documento não é um objeto JSON: %s", doc.Raw)
			}
			docs = append(docs, doc)
		}
		return docs, nil
	}

	var docs []gjson.Result
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !gjson.ValidBytes(raw) {
			return nil, errors.Errorf("linha %d: JSON inválido", line)
		}
		doc := gjson.ParseBytes(raw)
		if !doc.IsObject() {
			return nil, errors.Errorf("linha %d: documento não é um objeto JSON", line)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "erro ao ler NDJSON")
	}
	return docs, nil
}
