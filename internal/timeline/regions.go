package timeline

import "riftrecap/internal/riot"

// Summoner's Rift coordinate space runs roughly 0..14870 on both axes.
// Boxes are coarse on purpose: the labels feed narrative text, not pathing.
type regionBox struct {
	label                  string
	minX, minY, maxX, maxY int
}

var namedRegions = []regionBox{
	{"Baron pit", 4400, 9200, 6400, 11000},
	{"Dragon pit", 9000, 3600, 11000, 5400},
	{"blue-side base", 0, 0, 3200, 3200},
	{"red-side base", 11600, 11600, 14870, 14870},
	{"top river", 3200, 8000, 6800, 11600},
	{"bottom river", 8000, 3200, 11600, 6800},
}

// RegionLabel returns a coarse human-readable location for a map position.
func RegionLabel(pos riot.Position) string {
	for _, r := range namedRegions {
		if pos.X >= r.minX && pos.X <= r.maxX && pos.Y >= r.minY && pos.Y <= r.maxY {
			return r.label
		}
	}

	// Lane heuristic: top lane hugs small-x/large-y, bottom lane the
	// opposite, mid lane tracks the diagonal.
	diff := pos.X - pos.Y
	switch {
	case diff > -2500 && diff < 2500:
		return "mid lane"
	case pos.X < pos.Y:
		if pos.Y > 11000 || pos.X < 3800 {
			return "top lane"
		}
		return "top-side jungle"
	default:
		if pos.X > 11000 || pos.Y < 3800 {
			return "bottom lane"
		}
		return "bottom-side jungle"
	}
}
