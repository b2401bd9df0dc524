// Package locations provides the static region/district/mahalla reference
// data used by the complaint intake flow. The data is loaded once at process
// start from a JSON document and never mutated afterwards, so all lookups are
// safe for concurrent use.
package locations

import (
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Region is a first-tier administrative unit (viloyat).
type Region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// District is a second-tier unit (tuman/shahar) belonging to one region.
type District struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RegionID int    `json:"region_id"`
}

// Street is the third tier, a mahalla or street belonging to one district.
type Street struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	DistrictID int    `json:"district_id"`
}

type document struct {
	Regions   []Region   `json:"regions"`
	Districts []District `json:"districts"`
	Quarters  []Street   `json:"quarters"`
}

// Store holds the loaded reference tables. The tables are small (tens of
// regions, hundreds of districts) so lookups are linear scans.
type Store struct {
	regions   []Region
	districts []District
	streets   []Street
}

// Load reads the reference data from path. On any load failure it logs a
// warning and returns an empty store: the bot stays usable, the location
// pickers just show nothing.
func Load(path string, log *zap.SugaredLogger) *Store {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnw("location data not loaded, pickers will be empty", "path", path, "err", err)
		return &Store{}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warnw("location data malformed, pickers will be empty", "path", path, "err", err)
		return &Store{}
	}

	return &Store{
		regions:   doc.Regions,
		districts: doc.Districts,
		streets:   doc.Quarters,
	}
}

// Regions returns all regions in file order.
func (s *Store) Regions() []Region {
	return s.regions
}

// Region returns the region with the given id, or ok=false.
func (s *Store) Region(id int) (Region, bool) {
	for _, r := range s.regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// DistrictsOf returns all districts belonging to the given region.
func (s *Store) DistrictsOf(regionID int) []District {
	var out []District
	for _, d := range s.districts {
		if d.RegionID == regionID {
			out = append(out, d)
		}
	}
	return out
}

// District returns the district with the given id, or ok=false.
func (s *Store) District(id int) (District, bool) {
	for _, d := range s.districts {
		if d.ID == id {
			return d, true
		}
	}
	return District{}, false
}

// StreetsOf returns all streets/mahallas belonging to the given district.
func (s *Store) StreetsOf(districtID int) []Street {
	var out []Street
	for _, st := range s.streets {
		if st.DistrictID == districtID {
			out = append(out, st)
		}
	}
	return out
}

// Street returns the street with the given id, or ok=false.
func (s *Store) Street(id int) (Street, bool) {
	for _, st := range s.streets {
		if st.ID == id {
			return st, true
		}
	}
	return Street{}, false
}

// FullAddress renders "region, district[, street]" for the given ids,
// skipping any id that does not resolve.
func (s *Store) FullAddress(regionID, districtID int, streetID *int) string {
	var parts []string
	if r, ok := s.Region(regionID); ok {
		parts = append(parts, r.Name)
	}
	if d, ok := s.District(districtID); ok {
		parts = append(parts, d.Name)
	}
	if streetID != nil {
		if st, ok := s.Street(*streetID); ok {
			parts = append(parts, st.Name)
		}
	}
	return strings.Join(parts, ", ")
}
