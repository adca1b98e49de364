package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	"github.com/uptrace/bun"
)

type addressRow struct {
	Latitude  *float64 `bun:"latitude"`
	Longitude *float64 `bun:"longitude"`
}

var _ contractx.LocationResolver = (*AddressRepository)(nil)

// AddressRepository resolves a user's location from the most recently
// registered address.
type AddressRepository struct {
	db bun.IDB
}

func NewAddressRepository(db bun.IDB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Lookup(ctx context.Context, userID int64) (contractx.Location, bool) {
	var row addressRow
	err := r.selectLatest(userID).Scan(ctx, &row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Int64("user_id", userID).Msg("address lookup failed")
		}
		return contractx.Location{}, false
	}
	if row.Latitude == nil || row.Longitude == nil {
		return contractx.Location{}, false
	}
	return contractx.Location{Lat: *row.Latitude, Lng: *row.Longitude}, true
}

func (r *AddressRepository) selectLatest(userID int64) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("? AS addr", bun.Ident(tableUserAddress)).
		ColumnExpr("CAST(addr.latitude AS double precision) AS latitude").
		ColumnExpr("CAST(addr.longitude AS double precision) AS longitude").
		Where("addr.id_usuario = ?", userID).
		OrderExpr("addr.id_endereco DESC").
		Limit(1)
}
