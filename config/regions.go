package config

// Region represents a supported top-level region (sido)
type Region struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Center    []float64 `json:"center"`
	ZoomLevel int       `json:"zoomLevel"`
}

// SupportedRegions is a list of regions served by the application
var SupportedRegions = []Region{
	{
		Code:      "11",
		Name:      "서울특별시",
		Center:    []float64{37.5665, 126.9780},
		ZoomLevel: 11,
	},
	{
		Code:      "28",
		Name:      "인천광역시",
		Center:    []float64{37.4563, 126.7052},
		ZoomLevel: 11,
	},
	{
		Code:      "41",
		Name:      "경기도",
		Center:    []float64{37.4138, 127.5183},
		ZoomLevel: 9,
	},
	// Add more regions here as needed
}

// GetRegionCodes returns the codes of all supported regions
func GetRegionCodes() []string {
	codes := make([]string, len(SupportedRegions))
	for i, region := range SupportedRegions {
		codes[i] = region.Code
	}
	return codes
}

// GetRegionByCode returns a region configuration by its sido code
func GetRegionByCode(code string) *Region {
	for _, region := range SupportedRegions {
		if region.Code == code {
			return &region
		}
	}
	return nil
}
