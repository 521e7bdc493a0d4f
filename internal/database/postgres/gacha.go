package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/repository"
)

// GachaRepository implements the gacha repository for PostgreSQL
type GachaRepository struct {
	db *pgxpool.Pool
}

// NewGachaRepository creates a new GachaRepository
func NewGachaRepository(db *pgxpool.Pool) *GachaRepository {
	return &GachaRepository{db: db}
}

const poolColumns = `pool_id, name, COALESCE(description, ''), pool_type, cost, is_active, is_admin_only,
	search_tags, enable_local, enable_cloudinary, enable_wallhaven, created_at, updated_at`

func scanPool(row pgx.Row) (*domain.GachaPool, error) {
	var pool domain.GachaPool
	err := row.Scan(&pool.ID, &pool.Name, &pool.Description, &pool.Type, &pool.Cost,
		&pool.IsActive, &pool.IsAdminOnly, &pool.SearchTags,
		&pool.EnableLocal, &pool.EnableCloudinary, &pool.EnableWallhaven,
		&pool.CreatedAt, &pool.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (r *GachaRepository) GetPool(ctx context.Context, poolID string) (*domain.GachaPool, error) {
	query := fmt.Sprintf(`SELECT %s FROM gacha_pools WHERE pool_id = $1`, poolColumns)
	pool, err := scanPool(r.db.QueryRow(ctx, query, poolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	return pool, nil
}

func (r *GachaRepository) ListPools(ctx context.Context, includeInactive bool) ([]domain.GachaPool, error) {
	query := fmt.Sprintf(`SELECT %s FROM gacha_pools`, poolColumns)
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	defer rows.Close()

	var pools []domain.GachaPool
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool: %w", err)
		}
		pools = append(pools, *pool)
	}
	return pools, rows.Err()
}

func (r *GachaRepository) CreatePool(ctx context.Context, pool *domain.GachaPool) error {
	query := `
		INSERT INTO gacha_pools
			(pool_id, name, description, pool_type, cost, is_active, is_admin_only,
			 search_tags, enable_local, enable_cloudinary, enable_wallhaven, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		pool.ID, pool.Name, pool.Description, pool.Type, pool.Cost,
		pool.IsActive, pool.IsAdminOnly, pool.SearchTags,
		pool.EnableLocal, pool.EnableCloudinary, pool.EnableWallhaven,
		pool.CreatedAt, pool.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pool: %w", err)
	}
	return nil
}

func (r *GachaRepository) UpdatePool(ctx context.Context, pool *domain.GachaPool) error {
	query := `
		UPDATE gacha_pools
		SET name = $1, description = $2, cost = $3, is_active = $4, is_admin_only = $5,
		    search_tags = $6, enable_local = $7, enable_cloudinary = $8, enable_wallhaven = $9,
		    updated_at = NOW()
		WHERE pool_id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		pool.Name, pool.Description, pool.Cost, pool.IsActive, pool.IsAdminOnly,
		pool.SearchTags, pool.EnableLocal, pool.EnableCloudinary, pool.EnableWallhaven,
		pool.ID)
	if err != nil {
		return fmt.Errorf("failed to update pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPoolNotFound
	}
	return nil
}

func (r *GachaRepository) DeletePool(ctx context.Context, poolID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gacha_pools WHERE pool_id = $1`, poolID)
	if err != nil {
		return fmt.Errorf("failed to delete pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPoolNotFound
	}
	return nil
}

func (r *GachaRepository) GetRarityConfigs(ctx context.Context, poolID string) ([]domain.PoolRarityConfig, error) {
	query := `
		SELECT pool_id, rarity, weight, probability
		FROM pool_rarity_configs
		WHERE pool_id = $1
	`
	rows, err := r.db.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rarity configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.PoolRarityConfig
	for rows.Next() {
		var cfg domain.PoolRarityConfig
		if err := rows.Scan(&cfg.PoolID, &cfg.Rarity, &cfg.Weight, &cfg.Probability); err != nil {
			return nil, fmt.Errorf("failed to scan rarity config: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (r *GachaRepository) ReplaceRarityConfigs(ctx context.Context, poolID string, configs []domain.PoolRarityConfig) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO pool_rarity_configs (pool_id, rarity, weight, probability)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pool_id, rarity) DO UPDATE
		SET weight = EXCLUDED.weight, probability = EXCLUDED.probability
	`
	for _, cfg := range configs {
		if _, err := tx.Exec(ctx, upsert, poolID, cfg.Rarity, cfg.Weight, cfg.Probability); err != nil {
			return fmt.Errorf("failed to upsert rarity config %s: %w", cfg.Rarity, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *GachaRepository) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return getUser(ctx, r.db, userID)
}

func (r *GachaRepository) GetPullHistory(ctx context.Context, userID string, limit int) ([]domain.GachaPull, error) {
	query := `
		SELECT pull_id, user_id, pool_id, item_id, item_name, image_url, rarity, cost, pulled_at
		FROM gacha_pulls
		WHERE user_id = $1
		ORDER BY pulled_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pull history: %w", err)
	}
	defer rows.Close()

	var pulls []domain.GachaPull
	for rows.Next() {
		var pull domain.GachaPull
		if err := rows.Scan(&pull.ID, &pull.UserID, &pull.PoolID, &pull.ItemID,
			&pull.ItemName, &pull.ImageURL, &pull.Rarity, &pull.Cost, &pull.PulledAt); err != nil {
			return nil, fmt.Errorf("failed to scan pull: %w", err)
		}
		pulls = append(pulls, pull)
	}
	return pulls, rows.Err()
}

func (r *GachaRepository) GetCollection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	query := `
		SELECT user_id, item_id, pull_count, obtained_at
		FROM user_collections
		WHERE user_id = $1
		ORDER BY obtained_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer rows.Close()

	var entries []domain.CollectionEntry
	for rows.Next() {
		var entry domain.CollectionEntry
		if err := rows.Scan(&entry.UserID, &entry.ItemID, &entry.PullCount, &entry.ObtainedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *GachaRepository) BeginTx(ctx context.Context) (repository.GachaTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &gachaTx{ledgerTx: ledgerTx{tx: tx}}, nil
}

// gachaTx implements repository.GachaTx over a pgx transaction
type gachaTx struct {
	ledgerTx
}

func (t *gachaTx) InsertPull(ctx context.Context, pull *domain.GachaPull) error {
	query := `
		INSERT INTO gacha_pulls
			(pull_id, user_id, pool_id, item_id, item_name, image_url, rarity, cost, pulled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := t.tx.Exec(ctx, query,
		pull.ID, pull.UserID, pull.PoolID, pull.ItemID,
		pull.ItemName, pull.ImageURL, pull.Rarity, pull.Cost, pull.PulledAt)
	if err != nil {
		return fmt.Errorf("failed to insert pull: %w", err)
	}
	return nil
}

func (t *gachaTx) UpsertCollection(ctx context.Context, userID, itemID string) (bool, int, error) {
	// xmax = 0 identifies a freshly inserted row, distinguishing first-time
	// acquisitions from repeat pulls in a single statement
	query := `
		INSERT INTO user_collections (user_id, item_id, pull_count, obtained_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, item_id) DO UPDATE
		SET pull_count = user_collections.pull_count + 1
		RETURNING pull_count, (xmax = 0) AS was_new
	`
	var pullCount int
	var wasNew bool
	if err := t.tx.QueryRow(ctx, query, userID, itemID).Scan(&pullCount, &wasNew); err != nil {
		return false, 0, fmt.Errorf("failed to upsert collection: %w", err)
	}
	return wasNew, pullCount, nil
}
