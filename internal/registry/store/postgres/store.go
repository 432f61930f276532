package postgres

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"

	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
)

// Store implements store.Store on PostgreSQL. Batch mutations run inside a
// single transaction so they commit entirely or not at all.
type Store struct {
	pool *Pool
}

func New(pool *Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Store = (*Store)(nil)

func (s *Store) LoadState(ctx context.Context) (*models.State, error) {
	query := `
		SELECT minting_enabled, claim_enabled, unit_price, next_token_id, updated_at
		FROM registry_state
		WHERE id = 1
	`

	var st models.State
	var price string
	var nextID int64
	err := s.pool.QueryRow(ctx, query).Scan(
		&st.MintingEnabled,
		&st.ClaimEnabled,
		&price,
		&nextID,
		&st.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("load registry state: %w", err)
	}

	st.UnitPrice, err = uint256.FromDecimal(price)
	if err != nil {
		return nil, fmt.Errorf("parse stored unit price %q: %w", price, err)
	}
	st.NextTokenID = models.TokenID(nextID)
	return &st, nil
}

func (s *Store) SaveState(ctx context.Context, st *models.State) error {
	if st == nil || st.UnitPrice == nil {
		return store.ErrInvalidInput
	}
	query := `
		INSERT INTO registry_state (id, minting_enabled, claim_enabled, unit_price, next_token_id, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			minting_enabled = EXCLUDED.minting_enabled,
			claim_enabled   = EXCLUDED.claim_enabled,
			unit_price      = EXCLUDED.unit_price,
			next_token_id   = EXCLUDED.next_token_id,
			updated_at      = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		st.MintingEnabled,
		st.ClaimEnabled,
		st.UnitPrice.Dec(),
		int64(st.NextTokenID),
		st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save registry state: %w", err)
	}
	return nil
}

func (s *Store) CreatePass(ctx context.Context, p *models.Pass) error {
	if p == nil {
		return store.ErrInvalidInput
	}
	query := `
		INSERT INTO passes (
			token_id, points, tokens_claimed, access_level,
			airdrop_eligible, airdrop_multiplier, minted_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		int64(p.TokenID),
		int64(p.Points),
		p.TokensClaimed,
		int64(p.AccessLevel),
		p.AirdropEligible,
		int64(p.AirdropMultiplier),
		p.MintedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("create pass: %w", err)
	}
	return nil
}

func (s *Store) MintPass(ctx context.Context, st *models.State, wallet models.Address, p *models.Pass) error {
	if st == nil || st.UnitPrice == nil || wallet == "" || p == nil {
		return store.ErrInvalidInput
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO registry_state (id, minting_enabled, claim_enabled, unit_price, next_token_id, updated_at)
			VALUES (1, $1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				minting_enabled = EXCLUDED.minting_enabled,
				claim_enabled   = EXCLUDED.claim_enabled,
				unit_price      = EXCLUDED.unit_price,
				next_token_id   = EXCLUDED.next_token_id,
				updated_at      = EXCLUDED.updated_at
		`,
			st.MintingEnabled,
			st.ClaimEnabled,
			st.UnitPrice.Dec(),
			int64(st.NextTokenID),
			st.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("save registry state: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO wallet_stats (address, minted)
			VALUES ($1, TRUE)
			ON CONFLICT (address) DO UPDATE SET minted = TRUE
		`, string(wallet))
		if err != nil {
			return fmt.Errorf("set mint flag: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO passes (
				token_id, points, tokens_claimed, access_level,
				airdrop_eligible, airdrop_multiplier, minted_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			int64(p.TokenID),
			int64(p.Points),
			p.TokensClaimed,
			int64(p.AccessLevel),
			p.AirdropEligible,
			int64(p.AirdropMultiplier),
			p.MintedAt,
			p.UpdatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return store.ErrDuplicateKey
			}
			return fmt.Errorf("create pass: %w", err)
		}
		return nil
	})
}

func (s *Store) GetPass(ctx context.Context, id models.TokenID) (*models.Pass, error) {
	query := `
		SELECT token_id, points, tokens_claimed, access_level,
		       airdrop_eligible, airdrop_multiplier, minted_at, updated_at
		FROM passes
		WHERE token_id = $1
	`

	p, err := scanPass(s.pool.QueryRow(ctx, query, int64(id)))
	if err != nil {
		if isNotFoundError(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get pass: %w", err)
	}
	return p, nil
}

func (s *Store) UpdatePass(ctx context.Context, p *models.Pass) error {
	if p == nil {
		return store.ErrInvalidInput
	}
	query := `
		UPDATE passes SET
			points             = $2,
			tokens_claimed     = $3,
			access_level       = $4,
			airdrop_eligible   = $5,
			airdrop_multiplier = $6,
			updated_at         = $7
		WHERE token_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		int64(p.TokenID),
		int64(p.Points),
		p.TokensClaimed,
		int64(p.AccessLevel),
		p.AirdropEligible,
		int64(p.AirdropMultiplier),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pass: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ApplyPoints(ctx context.Context, award store.PointsAward) (uint64, error) {
	var total uint64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		total, err = applyPointsTx(ctx, tx, award)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ApplyPointsBatch(ctx context.Context, awards []store.PointsAward) ([]uint64, error) {
	totals := make([]uint64, len(awards))
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		for i, award := range awards {
			total, err := applyPointsTx(ctx, tx, award)
			if err != nil {
				return err
			}
			totals[i] = total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *Store) ApplyAirdropBatch(ctx context.Context, updates []store.AirdropUpdate) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE passes SET
				airdrop_eligible   = $2,
				airdrop_multiplier = $3,
				updated_at         = now()
			WHERE token_id = $1
		`
		for _, u := range updates {
			tag, err := tx.Exec(ctx, query, int64(u.TokenID), u.Eligible, int64(u.Multiplier))
			if err != nil {
				return fmt.Errorf("apply airdrop update: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return store.ErrNotFound
			}
		}
		return nil
	})
}

func (s *Store) HasMinted(ctx context.Context, wallet models.Address) (bool, error) {
	var minted bool
	err := s.pool.QueryRow(ctx,
		`SELECT minted FROM wallet_stats WHERE address = $1`, string(wallet)).Scan(&minted)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("get mint flag: %w", err)
	}
	return minted, nil
}

func (s *Store) SetMintFlag(ctx context.Context, wallet models.Address, minted bool) error {
	query := `
		INSERT INTO wallet_stats (address, minted)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET minted = EXCLUDED.minted
	`
	if _, err := s.pool.Exec(ctx, query, string(wallet), minted); err != nil {
		return fmt.Errorf("set mint flag: %w", err)
	}
	return nil
}

func (s *Store) WalletPoints(ctx context.Context, wallet models.Address) (uint64, error) {
	var points int64
	err := s.pool.QueryRow(ctx,
		`SELECT points FROM wallet_stats WHERE address = $1`, string(wallet)).Scan(&points)
	if err != nil {
		if isNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get wallet points: %w", err)
	}
	return uint64(points), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// applyPointsTx increments the per-token counter and the holder's historical
// total in one transaction.
func applyPointsTx(ctx context.Context, tx pgx.Tx, award store.PointsAward) (uint64, error) {
	var total int64
	err := tx.QueryRow(ctx, `
		UPDATE passes SET points = points + $2, updated_at = now()
		WHERE token_id = $1
		RETURNING points
	`, int64(award.TokenID), int64(award.Amount)).Scan(&total)
	if err != nil {
		if isNotFoundError(err) {
			return 0, store.ErrNotFound
		}
		return 0, fmt.Errorf("apply token points: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_stats (address, points)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET points = wallet_stats.points + EXCLUDED.points
	`, string(award.Holder), int64(award.Amount))
	if err != nil {
		return 0, fmt.Errorf("apply wallet points: %w", err)
	}

	return uint64(total), nil
}

func scanPass(row pgx.Row) (*models.Pass, error) {
	var p models.Pass
	var tokenID, points, accessLevel, multiplier int64

	err := row.Scan(
		&tokenID,
		&points,
		&p.TokensClaimed,
		&accessLevel,
		&p.AirdropEligible,
		&multiplier,
		&p.MintedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.TokenID = models.TokenID(tokenID)
	p.Points = uint64(points)
	p.AccessLevel = uint64(accessLevel)
	p.AirdropMultiplier = uint64(multiplier)
	return &p, nil
}
