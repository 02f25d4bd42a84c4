package models

// DefaultSponsors are seeded the first time the sponsors table is seen empty.
func DefaultSponsors() []Sponsor {
	return []Sponsor{
		{Name: "Alpha Tech Solutions", Tier: "Gold", Link: "https://example.com"},
		{Name: "Beta Cloud Services", Tier: "Silver", Link: "https://example.com"},
		{Name: "CodeCraft Academy", Tier: "Bronze", Link: "https://example.com"},
	}
}
