package collectors

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/httpclient"
	"github.com/alimgiray/ghcollect/internal/models"
)

// MaxPerPage is the largest page size the GitHub API accepts.
const MaxPerPage = 100

// capPerPage clamps the requested page size to (0, MaxPerPage].
func capPerPage(perPage int) int {
	if perPage <= 0 || perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// collectPages walks page=1,2,... until a page comes back empty or shorter
// than per_page. An error on any page is logged and recorded, and the
// items gathered so far are kept.
func collectPages[T any](ctx context.Context, client *httpclient.Client, log logrus.FieldLogger, path string, query url.Values) models.Result[[]T] {
	params := url.Values{}
	for key, values := range query {
		params[key] = append([]string(nil), values...)
	}

	requested, _ := strconv.Atoi(params.Get("per_page"))
	perPage := capPerPage(requested)
	params.Set("per_page", strconv.Itoa(perPage))

	result := models.Result[[]T]{Data: []T{}}

	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))

		resp, err := client.Do(ctx, httpclient.Request{Path: path, Query: params})
		if err == nil {
			var items []T
			if err = resp.Decode(&items); err == nil {
				if len(items) == 0 {
					break
				}
				result.Data = append(result.Data, items...)

				log.WithFields(logrus.Fields{
					"path":  path,
					"page":  page,
					"items": len(items),
				}).Debug("Fetched page")

				if len(items) < perPage {
					break
				}
				continue
			}
		}

		log.WithFields(logrus.Fields{
			"path":  path,
			"page":  page,
			"error": err,
		}).Error("Failed to fetch page, keeping results collected so far")
		result.AddError(fmt.Errorf("page %d of %s: %w", page, path, err))
		break
	}

	return result
}
