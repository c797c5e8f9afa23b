package risk

import (
	"fmt"
	"strings"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// Explain renders a deterministic narrative for an assessment. The
// fragments follow the same threshold bands the scorer uses, so the
// text always agrees with the numbers. Identical inputs produce
// byte-identical output.
func Explain(assessment models.RiskAssessment, in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Wildfire risk for %s is %s (score %.1f/100, confidence %.0f%%). ",
		in.Region.Name, strings.ToUpper(assessment.Level.String()), assessment.Score, assessment.Confidence)

	b.WriteString(temperatureFragment(in.Weather.Temperature))
	b.WriteString(humidityFragment(in.Weather.Humidity))
	b.WriteString(windFragment(in.Weather.WindSpeed))
	b.WriteString(precipitationFragment(in.Weather.Precipitation, in.Weather.Temperature))
	b.WriteString(terrainFragment(in.Region))
	b.WriteString(historyFragment(in.Pattern))

	return strings.TrimSpace(b.String())
}

func temperatureFragment(temp float64) string {
	switch {
	case temp > 35:
		return fmt.Sprintf("Extreme heat at %.1f°C dries fuels rapidly. ", temp)
	case temp > 30:
		return fmt.Sprintf("High temperatures around %.1f°C accelerate fuel drying. ", temp)
	case temp > 25:
		return fmt.Sprintf("Warm conditions at %.1f°C moderately raise ignition potential. ", temp)
	case temp > 20:
		return fmt.Sprintf("Mild temperatures near %.1f°C keep ignition potential limited. ", temp)
	default:
		return fmt.Sprintf("Cool conditions at %.1f°C suppress fire activity. ", temp)
	}
}

func humidityFragment(humidity float64) string {
	switch {
	case humidity < 20:
		return fmt.Sprintf("Critically dry air at %.0f%% humidity leaves vegetation highly flammable. ", humidity)
	case humidity < 30:
		return fmt.Sprintf("Very low humidity of %.0f%% keeps fuels dry. ", humidity)
	case humidity < 40:
		return fmt.Sprintf("Low humidity of %.0f%% contributes to fuel dryness. ", humidity)
	case humidity < 50:
		return fmt.Sprintf("Moderate humidity of %.0f%% offers little moisture recovery. ", humidity)
	default:
		return fmt.Sprintf("Humidity of %.0f%% helps vegetation retain moisture. ", humidity)
	}
}

func windFragment(speed float64) string {
	switch {
	case speed > 40:
		return fmt.Sprintf("Violent winds of %.1f m/s would drive extreme fire spread. ", speed)
	case speed > 30:
		return fmt.Sprintf("Strong winds of %.1f m/s would push any fire quickly. ", speed)
	case speed > 20:
		return fmt.Sprintf("Fresh winds of %.1f m/s aid fire spread. ", speed)
	case speed > 10:
		return fmt.Sprintf("Moderate winds of %.1f m/s provide some spread potential. ", speed)
	default:
		return fmt.Sprintf("Light winds of %.1f m/s limit fire spread. ", speed)
	}
}

func precipitationFragment(precip, temp float64) string {
	switch {
	case precip == 0 && temp > 30:
		return "No recent rainfall combined with the heat leaves the landscape parched. "
	case precip == 0:
		return "No recent rainfall has been recorded. "
	case precip < 2:
		return fmt.Sprintf("Only %.1f mm of rain provides minimal relief. ", precip)
	case precip < 5:
		return fmt.Sprintf("Rainfall of %.1f mm gives partial moisture recovery. ", precip)
	default:
		return fmt.Sprintf("Rainfall of %.1f mm keeps fuels damp. ", precip)
	}
}

func terrainFragment(region models.Region) string {
	var b strings.Builder

	switch region.Soil.Name {
	case "Sandy":
		b.WriteString("Sandy soil drains and dries quickly, adding to the hazard. ")
	case "Clay":
		b.WriteString("Clay soil retains moisture, tempering the hazard. ")
	case "Loam":
		b.WriteString("Loam soil moderates moisture loss. ")
	default:
		if region.Soil.Name != "" {
			fmt.Fprintf(&b, "%s soil conditions apply. ", region.Soil.Name)
		}
	}

	switch {
	case region.VegetationDensity > 0.6:
		b.WriteString("Dense vegetation supplies a heavy fuel load. ")
	case region.VegetationDensity > 0.3:
		b.WriteString("Moderate vegetation cover supplies a medium fuel load. ")
	default:
		b.WriteString("Sparse vegetation limits the available fuel. ")
	}

	if zone := climateZoneLabel(region.ClimateZone); zone != "" {
		fmt.Fprintf(&b, "The region sits in a %s climate zone. ", zone)
	}
	return b.String()
}

func climateZoneLabel(zone string) string {
	switch zone {
	case "mediterranean":
		return "Mediterranean"
	case "semi_arid":
		return "semi-arid"
	case "temperate":
		return "temperate"
	default:
		return ""
	}
}

func historyFragment(pattern *models.HistoricalPattern) string {
	if pattern == nil {
		return "No historical weather data was available, so the outlook relies on current conditions alone."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %d recent observations (%s) shows ", pattern.SampleCount, pattern.Season)

	trend := pattern.Temperature.Trends.LinearTrend
	switch {
	case trend > 0.05:
		b.WriteString("a warming temperature trend")
	case trend < -0.05:
		b.WriteString("a cooling temperature trend")
	default:
		b.WriteString("stable temperatures")
	}

	if n := pattern.Temperature.ExtremeEvents; n > 0 {
		fmt.Fprintf(&b, " with %d day(s) above 35°C", n)
	}
	if n := pattern.Precipitation.ExtremeEvents; n > 0 {
		fmt.Fprintf(&b, " and %d drought day(s)", n)
	}
	b.WriteString(".")
	return b.String()
}
