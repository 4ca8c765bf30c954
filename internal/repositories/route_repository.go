package repositories

import (
	"context"
	"strings"

	"github.com/samber/lo"

	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

// RouteRepository reads the route reference document. Routes are never written
// by the service; the document is seeded at startup.
type RouteRepository struct {
	docs *Collection[models.Route]
}

func NewRouteRepository(s intdb.Store) *RouteRepository {
	return &RouteRepository{docs: NewCollection[models.Route](s, domain.DocRoutes)}
}

func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	return r.docs.All(ctx)
}

// Filter matches origin and destination case-insensitively; empty filters match all.
func (r *RouteRepository) Filter(ctx context.Context, origin, destination string) ([]models.Route, error) {
	routes, err := r.docs.All(ctx)
	if err != nil {
		return nil, err
	}
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	return lo.Filter(routes, func(rt models.Route, _ int) bool {
		if origin != "" && !strings.EqualFold(rt.Origin, origin) {
			return false
		}
		if destination != "" && !strings.EqualFold(rt.Destination, destination) {
			return false
		}
		return true
	}), nil
}
