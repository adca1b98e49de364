package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tanpawarit/promo-agent/agent/retrieval"
	"github.com/uptrace/bun"
)

const (
	tablePromotion            = "tbl_promocao"
	tableProduct              = "tbl_produto"
	tableCategory             = "tbl_categoria"
	tableEstablishment        = "tbl_estabelecimento"
	tableEstablishmentAddress = "tbl_enderecoEstabelecimento"
	tableUserAddress          = "tbl_enderecoUsuario"
)

type offerRow struct {
	OfferID         int64          `bun:"offer_id"`
	ProductID       int64          `bun:"product_id"`
	Product         string         `bun:"product"`
	Category        sql.NullString `bun:"category"`
	EstablishmentID int64          `bun:"establishment_id"`
	Establishment   string         `bun:"establishment"`
	City            sql.NullString `bun:"city"`
	State           sql.NullString `bun:"state"`
	Latitude        *float64       `bun:"latitude"`
	Longitude       *float64       `bun:"longitude"`
	PriceCents      int64          `bun:"price_cents"`
	StartDate       time.Time      `bun:"start_date"`
	EndDate         time.Time      `bun:"end_date"`
}

func (r offerRow) candidate() retrieval.Candidate {
	return retrieval.Candidate{
		OfferID:         r.OfferID,
		ProductID:       r.ProductID,
		Product:         r.Product,
		Category:        r.Category.String,
		EstablishmentID: r.EstablishmentID,
		Establishment:   r.Establishment,
		City:            r.City.String,
		State:           r.State.String,
		Lat:             r.Latitude,
		Lng:             r.Longitude,
		PriceCents:      r.PriceCents,
		StartDate:       retrieval.DateOf(r.StartDate),
		EndDate:         retrieval.DateOf(r.EndDate),
	}
}

var _ retrieval.Source = (*OfferRepository)(nil)

// OfferRepository reads active promotions joined with product, category,
// establishment and establishment address.
type OfferRepository struct {
	db bun.IDB
}

func NewOfferRepository(db bun.IDB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) ActiveOffers(ctx context.Context, filter retrieval.Filter) ([]retrieval.Candidate, error) {
	var rows []offerRow
	if err := r.selectActive(filter).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("select active offers: %w", err)
	}

	out := make([]retrieval.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.candidate())
	}
	return out, nil
}

func (r *OfferRepository) selectActive(filter retrieval.Filter) *bun.SelectQuery {
	today := filter.Today.String()

	q := r.db.NewSelect().
		TableExpr("? AS promo", bun.Ident(tablePromotion)).
		ColumnExpr("promo.id_promocao AS offer_id").
		ColumnExpr("prod.id_produto AS product_id").
		ColumnExpr("prod.nome AS product").
		ColumnExpr("cat.nome AS category").
		ColumnExpr("est.id_estabelecimento AS establishment_id").
		ColumnExpr("est.nome AS establishment").
		ColumnExpr("endest.cidade AS city").
		ColumnExpr("endest.estado AS state").
		ColumnExpr("CAST(endest.latitude AS double precision) AS latitude").
		ColumnExpr("CAST(endest.longitude AS double precision) AS longitude").
		ColumnExpr("CAST(ROUND(promo.preco_promocional * 100) AS bigint) AS price_cents").
		ColumnExpr("promo.data_inicio AS start_date").
		ColumnExpr("promo.data_fim AS end_date").
		Join("JOIN ? AS prod ON prod.id_produto = promo.id_produto", bun.Ident(tableProduct)).
		Join("LEFT JOIN ? AS cat ON cat.id_categoria = prod.id_categoria", bun.Ident(tableCategory)).
		Join("JOIN ? AS est ON est.id_estabelecimento = promo.id_estabelecimento", bun.Ident(tableEstablishment)).
		Join("JOIN ? AS endest ON endest.id_estabelecimento = est.id_estabelecimento", bun.Ident(tableEstablishmentAddress)).
		Where("promo.data_inicio <= CAST(? AS date)", today).
		Where("promo.data_fim >= CAST(? AS date)", today)

	if filter.Category != "" {
		q = q.Where("cat.nome = ?", filter.Category)
	}
	if filter.MaxPriceCents != nil {
		q = q.Where("ROUND(promo.preco_promocional * 100) <= ?", *filter.MaxPriceCents)
	}
	if filter.NameFilter != "" {
		q = q.Where("prod.nome ILIKE ?", "%"+escapeLike(filter.NameFilter)+"%")
	}

	q = q.OrderExpr("promo.preco_promocional ASC, promo.id_promocao ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
