package property

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/workstays/workstays-api/internal/pkg/filter"
)

// flagFields maps query param names to amenity/safety/availability getters.
// A flag participates only when the param is exactly "true"; anything else
// leaves the predicate inactive.
var flagFields = []struct {
	key string
	get func(Property) bool
}{
	{"wifi", func(p Property) bool { return p.Wifi }},
	{"washing_machine", func(p Property) bool { return p.WashingMachine }},
	{"dryer", func(p Property) bool { return p.Dryer }},
	{"dishwasher", func(p Property) bool { return p.Dishwasher }},
	{"microwave", func(p Property) bool { return p.Microwave }},
	{"smart_tv", func(p Property) bool { return p.SmartTV }},
	{"garden", func(p Property) bool { return p.Garden }},
	{"desk_space", func(p Property) bool { return p.DeskSpace }},
	{"smoke_alarms", func(p Property) bool { return p.SmokeAlarms }},
	{"carbon_monoxide_alarm", func(p Property) bool { return p.CarbonMonoxideAlarm }},
	{"fire_extinguisher", func(p Property) bool { return p.FireExtinguisher }},
	{"first_aid_kit", func(p Property) bool { return p.FirstAidKit }},
	{"gas_safety_cert", func(p Property) bool { return p.GasSafetyCert }},
	{"electrical_safety_cert", func(p Property) bool { return p.ElectricalSafetyCert }},
	{"bills_included", func(p Property) bool { return p.BillsIncluded }},
	{"available", func(p Property) bool { return p.Available }},
}

// FiltersFromQuery builds the active clause set for the property directory.
// Absent or empty params contribute nothing.
func FiltersFromQuery(q url.Values) *filter.Set[Property] {
	s := &filter.Set[Property]{}

	if term := strings.TrimSpace(q.Get("q")); term != "" {
		s.Add("q", strings.ToLower(term), func(p Property) bool {
			return filter.ContainsFold(p.Name, term) ||
				filter.ContainsFold(p.ComposedAddress(), term) ||
				filter.ContainsFold(p.PropertyType, term)
		})
	}

	if city := strings.TrimSpace(q.Get("city")); city != "" {
		s.Add("city", strings.ToLower(city), func(p Property) bool {
			return strings.EqualFold(p.City, city)
		})
	}
	if pt := strings.TrimSpace(q.Get("property_type")); pt != "" {
		s.Add("property_type", strings.ToLower(pt), func(p Property) bool {
			return strings.EqualFold(p.PropertyType, pt)
		})
	}
	if parking := strings.TrimSpace(q.Get("parking_type")); parking != "" {
		s.Add("parking_type", strings.ToLower(parking), func(p Property) bool {
			return strings.EqualFold(p.ParkingType, parking)
		})
	}

	if n := queryInt(q, "min_bedrooms"); n > 0 {
		s.Add("min_bedrooms", strconv.Itoa(n), func(p Property) bool { return p.Bedrooms >= n })
	}
	if n := queryInt(q, "min_beds"); n > 0 {
		s.Add("min_beds", strconv.Itoa(n), func(p Property) bool { return p.Beds >= n })
	}
	if n := queryInt(q, "min_bathrooms"); n > 0 {
		s.Add("min_bathrooms", strconv.Itoa(n), func(p Property) bool { return p.Bathrooms >= n })
	}
	if n := queryInt(q, "occupancy"); n > 0 {
		s.Add("occupancy", strconv.Itoa(n), func(p Property) bool { return p.MaxOccupancy == n })
	}

	for _, f := range flagFields {
		if q.Get(f.key) == "true" {
			s.Add(f.key, "true", f.get)
		}
	}

	return s
}

func queryInt(q url.Values, key string) int {
	v := q.Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
