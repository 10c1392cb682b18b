package usecase

import (
	"time"

	"channel-studio/infrastructure/utils"
)

// EngagementRates computes engagement, like and comment rates as
// percentages of views, rounded to 4 decimals. Zero views yields zeros.
func EngagementRates(views, likes, comments int64) (engagement, likeRate, commentRate float64) {
	if views <= 0 {
		return 0, 0, 0
	}
	v := float64(views)
	engagement = utils.Round(float64(likes+comments)/v*100, 4)
	likeRate = utils.Round(float64(likes)/v*100, 4)
	commentRate = utils.Round(float64(comments)/v*100, 4)
	return engagement, likeRate, commentRate
}

// ViewsPerDay computes daily view velocity since publication. Videos
// published today use the raw view count.
func ViewsPerDay(publishedAt time.Time, views int64, now time.Time) float64 {
	if views <= 0 {
		return 0
	}
	days := int64(now.Sub(publishedAt).Hours() / 24)
	if days <= 0 {
		return float64(views)
	}
	return utils.Round(float64(views)/float64(days), 2)
}

// PerformanceScore bands a video's engagement rate (percent) into a
// 0-100 score. Videos without views score 0.
func PerformanceScore(views int64, engagementRate float64) int {
	if views <= 0 {
		return 0
	}
	switch {
	case engagementRate >= 10:
		return 100
	case engagementRate >= 5:
		return 80
	case engagementRate >= 2:
		return 60
	case engagementRate >= 1:
		return 40
	case engagementRate >= 0.5:
		return 20
	default:
		return 10
	}
}
