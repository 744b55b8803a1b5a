package engine

import "sort"

// RewardEntry is one row of the catalog.
type RewardEntry struct {
	Level  int
	Reward string
}

// RewardCatalog maps level numbers to reward text. An unset level reads as
// the empty string, which means no reward is configured.
type RewardCatalog struct {
	rewards map[int]string
}

func NewRewardCatalog(m map[int]string) *RewardCatalog {
	c := &RewardCatalog{rewards: map[int]string{}}
	c.Replace(m)
	return c
}

func (c *RewardCatalog) Get(level int) string {
	return c.rewards[level]
}

func (c *RewardCatalog) Set(level int, reward string) error {
	if level < 1 {
		return ValidationError{Field: "level", Reason: "must be at least 1"}
	}
	c.rewards[level] = reward
	return nil
}

// Replace drops the current catalog in favor of m. Levels below 1 are ignored.
func (c *RewardCatalog) Replace(m map[int]string) {
	c.rewards = make(map[int]string, len(m))
	for level, reward := range m {
		if level >= 1 {
			c.rewards[level] = reward
		}
	}
}

// Len is the highest configured level.
func (c *RewardCatalog) Len() int {
	n := 0
	for level := range c.rewards {
		n = max(n, level)
	}
	return n
}

// Entries returns levels 1..Len, back-filling unset levels with "".
func (c *RewardCatalog) Entries() []RewardEntry {
	n := c.Len()
	out := make([]RewardEntry, n)
	for i := range out {
		out[i] = RewardEntry{Level: i + 1, Reward: c.rewards[i+1]}
	}
	return out
}

// Legacy is the catalog as a dense array indexed by level-1.
func (c *RewardCatalog) Legacy() []string {
	entries := c.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Reward
	}
	return out
}

// Map returns a copy of the explicitly set levels.
func (c *RewardCatalog) Map() map[int]string {
	out := make(map[int]string, len(c.rewards))
	for k, v := range c.rewards {
		out[k] = v
	}
	return out
}

// Levels returns the explicitly set levels in ascending order.
func (c *RewardCatalog) Levels() []int {
	out := make([]int, 0, len(c.rewards))
	for k := range c.rewards {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// catalogFromLegacy reads a dense rewards array, skipping empty slots.
func catalogFromLegacy(legacy []string) map[int]string {
	out := map[int]string{}
	for i, r := range legacy {
		if r != "" {
			out[i+1] = r
		}
	}
	return out
}
