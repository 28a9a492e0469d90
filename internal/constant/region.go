package constant

// Regions are the data partitions raw matches are collected and aggregated
// under. Each region is aggregated independently; "global" is the merged view.
var Regions = []string{"NA", "EU", "KR", "AP"}

const (
	DefaultRegion = "NA"

	// GlobalRegion is the pseudo-region answered by merging all configured
	// regions. It never appears on a raw match.
	GlobalRegion = "global"
)

func IsValidRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}
