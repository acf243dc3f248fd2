package classify

import (
	"strings"

	"hadithhub/pkg/models"
)

// highAuthenticity names the two sahih collections.
var highAuthenticity = []string{"bukhari", "muslim"}

// recognized lists the other collections the engine knows about.
var recognized = []string{
	"abu dawud", "abudawud", "tirmidhi", "nasai", "nasa'i", "ibn majah", "ibnmajah",
	"malik", "muwatta", "nawawi", "qudsi", "dehlawi", "riyad",
}

// Grade maps a collection name (or id) to an authenticity label: high for the
// sahih collections, medium for other recognized collections, unverified
// otherwise.
func Grade(collectionName string) models.Grade {
	name := strings.ToLower(collectionName)
	for _, s := range highAuthenticity {
		if strings.Contains(name, s) {
			return models.GradeHigh
		}
	}
	for _, s := range recognized {
		if strings.Contains(name, s) {
			return models.GradeMedium
		}
	}
	return models.GradeUnverified
}
