package proximity

import (
	"time"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
)

// SeedHazards returns the known Nairobi road conditions, stamped with now.
func SeedHazards(now time.Time) []models.RoadCondition {
	hazard := func(id string, t models.HazardType, lat, lng float64, name, description string, severity models.Severity, verified bool) models.RoadCondition {
		return models.RoadCondition{
			ID:          id,
			Type:        t,
			Location:    geo.Point{Lat: lat, Lng: lng},
			Name:        name,
			Description: description,
			Severity:    severity,
			Verified:    verified,
			ReportedAt:  now,
		}
	}

	return []models.RoadCondition{
		hazard("murram-1", models.HazardMurram, -1.2450, 36.8750, "Ruaka Road Section", "Unpaved murram section - 500m stretch, dusty conditions", models.SeverityMedium, true),
		hazard("murram-2", models.HazardMurram, -1.3100, 36.7500, "Ngong Forest Edge", "Murram road near forest entry - slow down advised", models.SeverityLow, true),
		hazard("murram-3", models.HazardMurram, -1.2200, 36.8900, "Kahawa West Access", "Rough murram - suitable for 4x4 vehicles only", models.SeverityHigh, true),
		hazard("murram-4", models.HazardMurram, -1.3350, 36.7800, "Karen Plains Road", "Seasonal murram road - passable in dry weather", models.SeverityMedium, true),
		hazard("construction-1", models.HazardConstruction, -1.2750, 36.8100, "Westlands Flyover Project", "Major construction - expect 15-20 min delays", models.SeverityHigh, true),
		hazard("construction-2", models.HazardConstruction, -1.2980, 36.7850, "Ngong Road Expansion", "Road widening in progress - single lane traffic", models.SeverityMedium, true),
		hazard("construction-3", models.HazardConstruction, -1.2600, 36.8400, "Parklands Drainage Works", "Drainage installation - partial road closure", models.SeverityMedium, true),
		hazard("construction-4", models.HazardConstruction, -1.3050, 36.8600, "Industrial Area Upgrade", "Road resurfacing - heavy machinery present", models.SeverityLow, true),
		hazard("pothole-1", models.HazardPothole, -1.2850, 36.8250, "Kenyatta Avenue Section", "Multiple potholes - drive carefully", models.SeverityMedium, true),
		hazard("flooded-1", models.HazardFlooded, -1.2700, 36.8550, "Mathare Valley Crossing", "Floods during heavy rain - check conditions first", models.SeverityHigh, false),
	}
}

// SeedCameras returns the known Nairobi speed enforcement points.
func SeedCameras() []models.SpeedCamera {
	camera := func(id string, lat, lng float64, name string, limit int, t models.CameraType, direction string) models.SpeedCamera {
		return models.SpeedCamera{
			ID:            id,
			Location:      geo.Point{Lat: lat, Lng: lng},
			Name:          name,
			SpeedLimitKph: limit,
			Type:          t,
			Direction:     direction,
			Active:        true,
		}
	}

	return []models.SpeedCamera{
		camera("cam-1", -1.3150, 36.8500, "Mombasa Road - Nyayo Stadium", 50, models.CameraFixed, "Both directions"),
		camera("cam-2", -1.3080, 36.8400, "Mombasa Road - Bellevue", 50, models.CameraFixed, "City-bound"),
		camera("cam-3", -1.2920, 36.8200, "Uhuru Highway - Nyayo House", 50, models.CameraFixed, "Both directions"),
		camera("cam-4", -1.2850, 36.8150, "Uhuru Highway - Kenyatta Ave", 50, models.CameraFixed, "Westlands-bound"),
		camera("cam-5", -1.2400, 36.8600, "Thika Road - Muthaiga", 80, models.CameraFixed, "Both directions"),
		camera("cam-6", -1.2200, 36.8750, "Thika Road - Kasarani", 80, models.CameraAverage, "City-bound"),
		camera("cam-7", -1.2050, 36.8850, "Thika Road - Roysambu", 80, models.CameraFixed, "Both directions"),
		camera("cam-8", -1.2650, 36.8000, "Waiyaki Way - Westlands", 50, models.CameraFixed, "City-bound"),
		camera("cam-9", -1.2580, 36.7850, "Waiyaki Way - ABC Place", 50, models.CameraMobile, "Variable"),
		camera("cam-10", -1.2970, 36.7950, "Ngong Road - Prestige Plaza", 50, models.CameraFixed, "Both directions"),
		camera("cam-11", -1.3050, 36.7800, "Ngong Road - Junction Mall", 50, models.CameraFixed, "Karen-bound"),
		camera("cam-12", -1.3100, 36.8050, "Langata Road - Carnivore", 50, models.CameraFixed, "Both directions"),
		camera("cam-13", -1.3000, 36.8300, "Expressway - Haile Selassie", 100, models.CameraAverage, "Both directions"),
		camera("cam-14", -1.2750, 36.7950, "Expressway - Westlands Exit", 80, models.CameraFixed, "Exit ramp"),
		camera("cam-15", -1.2550, 36.8700, "Outer Ring - Allsops", 50, models.CameraMobile, "Variable"),
	}
}
