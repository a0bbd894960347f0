package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/ports"
)

// Compile-time interface satisfaction check.
var _ ports.IdentityRepository = (*IdentityRepo)(nil)

const identityColumns = `id, credential_id, wallet_address, nft_token_id, nft_holder, nft_tier,
	reputation_score, is_verified, verification_count, badges, tier,
	created_at, updated_at, last_verified_at, last_nft_check`

// IdentityRepo is the SQLite implementation of the IdentityRepository port.
// Timestamps are stored as unix seconds; badges as a comma-joined list.
type IdentityRepo struct {
	db *DB
}

// NewIdentityRepo creates a new IdentityRepo
func NewIdentityRepo(db *DB) *IdentityRepo {
	return &IdentityRepo{db: db}
}

// FindByCredentialID returns the identity for a credential, or core.ErrNotFound.
func (r *IdentityRepo) FindByCredentialID(ctx context.Context, credentialID string) (*core.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM identities WHERE credential_id = ?`, identityColumns)

	identity, err := scanIdentity(r.db.Reader.QueryRowContext(ctx, query, credentialID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity by credential: %w", err)
	}
	return identity, nil
}

// FindByWalletAddresses returns all identities whose wallet matches one of the
// given addresses, compared case-insensitively.
func (r *IdentityRepo) FindByWalletAddresses(ctx context.Context, wallets []string) ([]core.Identity, error) {
	if len(wallets) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(wallets))
	args := make([]any, len(wallets))
	for i, w := range wallets {
		placeholders[i] = "?"
		args[i] = strings.ToLower(w)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM identities WHERE LOWER(wallet_address) IN (%s)`,
		identityColumns, strings.Join(placeholders, ","),
	)

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find identities by wallet: %w", err)
	}
	defer rows.Close()

	var identities []core.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

// Upsert inserts the identity or replaces the row with the same credential id.
func (r *IdentityRepo) Upsert(ctx context.Context, identity *core.Identity) error {
	const query = `INSERT INTO identities (
		id, credential_id, wallet_address, nft_token_id, nft_holder, nft_tier,
		reputation_score, is_verified, verification_count, badges, tier,
		created_at, updated_at, last_verified_at, last_nft_check
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (credential_id) DO UPDATE SET
		wallet_address = excluded.wallet_address,
		nft_token_id = excluded.nft_token_id,
		nft_holder = excluded.nft_holder,
		nft_tier = excluded.nft_tier,
		reputation_score = excluded.reputation_score,
		is_verified = excluded.is_verified,
		verification_count = excluded.verification_count,
		badges = excluded.badges,
		tier = excluded.tier,
		updated_at = excluded.updated_at,
		last_verified_at = excluded.last_verified_at,
		last_nft_check = excluded.last_nft_check`

	_, err := r.db.Writer.ExecContext(ctx, query,
		identity.ID,
		identity.CredentialID,
		identity.WalletAddress,
		identity.NFTTokenID,
		identity.NFTHolder,
		identity.NFTTier,
		identity.ReputationScore,
		identity.IsVerified,
		identity.VerificationCount,
		strings.Join(identity.Badges, ","),
		identity.Tier,
		identity.CreatedAt.Unix(),
		identity.UpdatedAt.Unix(),
		nullableUnix(identity.LastVerifiedAt),
		nullableUnix(identity.LastNFTCheck),
	)
	if err != nil {
		return fmt.Errorf("upsert identity %q: %w", identity.CredentialID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*core.Identity, error) {
	var (
		identity       core.Identity
		badges         string
		createdAt      int64
		updatedAt      int64
		lastVerifiedAt sql.NullInt64
		lastNFTCheck   sql.NullInt64
	)

	err := row.Scan(
		&identity.ID,
		&identity.CredentialID,
		&identity.WalletAddress,
		&identity.NFTTokenID,
		&identity.NFTHolder,
		&identity.NFTTier,
		&identity.ReputationScore,
		&identity.IsVerified,
		&identity.VerificationCount,
		&badges,
		&identity.Tier,
		&createdAt,
		&updatedAt,
		&lastVerifiedAt,
		&lastNFTCheck,
	)
	if err != nil {
		return nil, err
	}

	if badges != "" {
		identity.Badges = strings.Split(badges, ",")
	}
	identity.CreatedAt = time.Unix(createdAt, 0).UTC()
	identity.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if lastVerifiedAt.Valid {
		identity.LastVerifiedAt = time.Unix(lastVerifiedAt.Int64, 0).UTC()
	}
	if lastNFTCheck.Valid {
		identity.LastNFTCheck = time.Unix(lastNFTCheck.Int64, 0).UTC()
	}

	return &identity, nil
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
