package cache

import "fmt"

func BrandSummaryKey(ownerID string) string {
	return fmt.Sprintf("brand:summary:%s", ownerID)
}

func VideoStatusKey(unitID string) string {
	return fmt.Sprintf("video:status:%s", unitID)
}
