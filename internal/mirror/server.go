// Package mirror serves and writes a local copy of provider editions in the
// provider's own layout, so the engine can run against it offline.
package mirror

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"hadithhub/internal/fetcher"
	"hadithhub/internal/platform/logger"
)

// ListingFile is the name of the edition listing inside a mirror directory.
const ListingFile = "editions.json"

// Handler serves dir the way the remote provider does:
// GET /editions/{id}.json and GET /editions.json.
func Handler(dir string, log *logger.Logger) http.Handler {
	log = logger.OrNop(log)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/editions.json", func(c *gin.Context) {
		listing, err := readListing(dir)
		if err != nil {
			log.Warn("mirror listing failed", "dir", dir, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read mirror"})
			return
		}
		c.JSON(http.StatusOK, listing)
	})

	r.GET("/editions/:file", func(c *gin.Context) {
		name := c.Param("file")
		id, ok := strings.CutSuffix(name, ".json")
		if !ok || !validID(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		b, err := os.ReadFile(filepath.Join(dir, id+".json"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		// refuse to serve something the engine would reject anyway
		if !json.Valid(b) {
			log.Warn("mirror edition is not valid JSON", "edition", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid edition file"})
			return
		}
		c.Data(http.StatusOK, "application/json", b)
	})

	return r
}

func validID(id string) bool {
	if id == "" || id == "editions" {
		return false
	}
	for _, r := range id {
		if !(r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// readListing prefers an editions.json written by Export and otherwise
// lists the edition files present.
func readListing(dir string) (map[string]fetcher.EditionInfo, error) {
	if b, err := os.ReadFile(filepath.Join(dir, ListingFile)); err == nil {
		var listing map[string]fetcher.EditionInfo
		if err := json.Unmarshal(b, &listing); err != nil {
			return nil, err
		}
		return listing, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	listing := make(map[string]fetcher.EditionInfo, len(matches))
	for _, m := range matches {
		id := strings.TrimSuffix(filepath.Base(m), ".json")
		if !validID(id) {
			continue
		}
		listing[id] = fetcher.EditionInfo{Name: id}
	}
	return listing, nil
}
