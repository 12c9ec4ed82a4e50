package database

import (
	"github.com/doug-martin/goqu/v9"

	"github.com/divetribe/divedirectory/internal/domain/repositories"
)

const (
	defaultPageLimit = 50

	// The store measures geography distance in meters; search options carry
	// kilometers. The conversion lives here and nowhere else.
	metersPerKilometer = 1000.0
)

var operatorColumns = []interface{}{
	"id", "slug", "name", "description", "address", "phone", "email", "website",
	goqu.L("ST_Y(location::geometry)").As("latitude"),
	goqu.L("ST_X(location::geometry)").As("longitude"),
	"logo_url", "banner_url",
	"social_facebook", "social_instagram", "social_twitter", "social_tiktok", "social_youtube",
	"owner_id", "verification_status", "verification_message", "active",
	"created_at", "updated_at",
}

// composeOperatorSearch translates search params into two datasets sharing
// one predicate set: the paginated row query and the unpaginated count.
// Soft-deleted rows are always excluded, whatever the params say.
func composeOperatorSearch(db *goqu.Database, p repositories.OperatorSearchParams) (rows *goqu.SelectDataset, count *goqu.SelectDataset) {
	base := db.From("operators").
		Where(goqu.I("deleted_at").IsNull())

	if !p.ShowInactive {
		base = base.Where(goqu.I("active").IsTrue())
	}

	if p.OwnerID != "" {
		base = base.Where(goqu.Ex{"owner_id": p.OwnerID})
	}

	if p.VerificationStatus != nil {
		base = base.Where(goqu.Ex{"verification_status": string(*p.VerificationStatus)})
	}

	if p.Query != "" {
		base = base.Where(goqu.L(
			"search_vector @@ websearch_to_tsquery('english', ?)", p.Query,
		))
	}

	// Geo filter applies only when both halves are present; a lone position
	// or radius is ignored entirely rather than applied partially.
	if p.HasGeoFilter() {
		radiusMeters := *p.RadiusKm * metersPerKilometer
		base = base.Where(goqu.L(
			"ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)",
			p.Position.Longitude, p.Position.Latitude, radiusMeters,
		))
	}

	count = base.Select(goqu.COUNT("*"))

	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	skip := p.Skip
	if skip < 0 {
		skip = 0
	}

	// Name is the declared sort key; id breaks ties so pagination is stable
	rows = base.Select(operatorColumns...).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc()).
		Limit(uint(limit)).
		Offset(uint(skip))

	return rows, count
}
