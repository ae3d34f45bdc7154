package catalog

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"book-rag/internal/config"
	"book-rag/internal/models"
)

// BookRecord is the persisted catalog row. Only metadata is stored;
// embedding vectors stay in the in-memory index by design.
type BookRecord struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID       string `bun:"id,pk"`
	Title    string `bun:"title,notnull"`
	Author   string `bun:"author"`
	Year     string `bun:"year"`
	Genre    string `bun:"genre"`
	Summary  string `bun:"summary"`
	FilePath string `bun:"file_path,notnull"`
}

// ConnectDB opens the Postgres-backed catalog store.
func ConnectDB(cfg *config.DatabaseConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*BookRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *Store) Save(ctx context.Context, meta models.BookMetadata) error {
	rec := &BookRecord{
		ID:       meta.ID,
		Title:    meta.Title,
		Author:   meta.Author,
		Year:     meta.Year,
		Genre:    meta.Genre,
		Summary:  meta.Summary,
		FilePath: meta.FilePath,
	}
	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("author = EXCLUDED.author").
		Set("year = EXCLUDED.year").
		Set("genre = EXCLUDED.genre").
		Set("summary = EXCLUDED.summary").
		Set("file_path = EXCLUDED.file_path").
		Exec(ctx)
	return err
}

func (s *Store) ListAll(ctx context.Context) ([]models.BookMetadata, error) {
	var recs []BookRecord
	if err := s.db.NewSelect().Model(&recs).Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]models.BookMetadata, len(recs))
	for i, rec := range recs {
		out[i] = models.BookMetadata{
			ID:       rec.ID,
			Title:    rec.Title,
			Author:   rec.Author,
			Year:     rec.Year,
			Genre:    rec.Genre,
			Summary:  rec.Summary,
			FilePath: rec.FilePath,
		}
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
