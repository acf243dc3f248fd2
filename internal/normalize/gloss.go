package normalize

import (
	"fmt"
	"strings"

	"hadithhub/pkg/models"
)

var glosses = map[models.Category]string{
	models.CategoryPrayer:     "calls the believer to guard the prayers and keep worship sincere",
	models.CategoryFaith:      "strengthens belief in Allah and the unseen",
	models.CategoryCharacter:  "teaches good manners and honest conduct",
	models.CategoryKnowledge:  "encourages seeking and sharing beneficial knowledge",
	models.CategoryCharity:    "urges generosity and giving to those in need",
	models.CategoryFamily:     "guides relations between parents, spouses and children",
	models.CategoryBusiness:   "sets out fairness in trade and dealings",
	models.CategorySociety:    "addresses the rights people hold over one another",
	models.CategoryHealth:     "speaks to caring for the body and seeking cure",
	models.CategoryFood:       "describes manners of eating and drinking",
	models.CategoryAfterlife:  "reminds of the Day of Judgment and what follows it",
	models.CategoryCommunity:  "builds brotherhood and care for neighbours",
	models.CategoryRepentance: "opens the door of repentance and forgiveness",
	models.CategoryPatience:   "commends patience through hardship",
	models.CategoryGratitude:  "calls for thankfulness for every blessing",
}

// Gloss returns the short templated explanation for an entry.
func Gloss(category models.Category, theme string) string {
	g, ok := glosses[category]
	if !ok {
		return "This narration offers general guidance for daily life."
	}
	return fmt.Sprintf("This narration on %s %s.", strings.ToLower(theme), g)
}
