package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/prasowlabs/moi-kanakku/internal/es"
	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service/search"
	"github.com/prasowlabs/moi-kanakku/internal/util"
)

type SearchHandler struct {
	ES *elasticsearch.Client
}

// Persons runs the fuzzy person search, scoped to the caller's data.
func (h *SearchHandler) Persons(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return respond.Fail(c, http.StatusBadRequest, "Query parameter q is required.")
	}

	principalID, _ := auth.PrincipalID(c)
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, persons, err := search.Search(c.Request().Context(), h.ES, es.PersonIndex,
		principalID, query, from, size)
	if err != nil {
		return respond.Error(c, err)
	}

	count := int(total)
	return respond.SuccessList(c, http.StatusOK, count, persons)
}
