package typechart

// chart is indexed [attacker][defender].
var chart = func() [Count][Count]Multiplier {
	var (
		o = Immune
		h = Half
		i = Neutral
		d = Double
	)
	return [Count][Count]Multiplier{
		//           Nor Fig Fly Poi Gro Roc Bug Gho Ste Fir Wat Gra Ele Psy Ice Dra Dar
		Normal:   {i, i, i, i, i, h, i, o, h, i, i, i, i, i, i, i, i},
		Fighting: {d, i, h, h, i, d, h, o, d, i, i, i, i, h, d, i, d},
		Flying:   {i, d, i, i, i, h, d, i, h, i, i, d, h, i, i, i, i},
		Poison:   {i, i, i, h, h, h, i, h, o, i, i, d, i, i, i, i, i},
		Ground:   {i, i, o, d, i, d, h, i, d, d, i, h, d, i, i, i, i},
		Rock:     {i, h, d, i, h, i, d, i, h, d, i, i, i, i, d, i, i},
		Bug:      {i, h, h, h, i, i, i, h, h, h, i, d, i, d, i, i, d},
		Ghost:    {o, i, i, i, i, i, i, d, h, i, i, i, i, d, i, i, h},
		Steel:    {i, i, i, i, i, d, i, i, h, h, h, i, h, i, d, i, i},
		Fire:     {i, i, i, i, i, h, d, i, d, h, h, d, i, i, d, h, i},
		Water:    {i, i, i, i, d, d, i, i, i, d, h, h, i, i, i, h, i},
		Grass:    {i, i, h, h, d, d, h, i, h, h, d, h, i, i, i, h, i},
		Electric: {i, i, d, i, o, i, i, i, i, i, d, h, h, i, i, h, i},
		Psychic:  {i, d, i, d, i, i, i, i, h, i, i, i, i, h, i, i, o},
		Ice:      {i, i, d, i, d, i, i, i, h, h, h, d, i, i, h, d, i},
		Dragon:   {i, i, i, i, i, i, i, i, h, i, i, i, i, i, i, d, i},
		Dark:     {i, h, i, i, i, i, i, d, h, i, i, i, i, d, i, i, h},
	}
}()

// Lookup returns the multiplier of an attacker type against a single
// defending type. Both arguments must be valid members of the universe.
func Lookup(attacker, defender Type) Multiplier {
	return chart[attacker][defender]
}

// Row returns a copy of the attacker's row in defender order.
func Row(attacker Type) []Multiplier {
	row := chart[attacker]
	out := make([]Multiplier, Count)
	copy(out, row[:])
	return out
}
