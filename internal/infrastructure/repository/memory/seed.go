package memory

import "github.com/riskibarqy/fantasy-cricket/internal/domain/team"

// SeedTeams returns the ten Indian Premier League franchises. The
// normalized keys here are the same ones the sync allow-list uses.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-csk", Name: "Chennai Super Kings", NameKey: "chennaisuperkings", Short: "CSK", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-dc", Name: "Delhi Capitals", NameKey: "delhicapitals", Short: "DC", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-gt", Name: "Gujarat Titans", NameKey: "gujarattitans", Short: "GT", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-kkr", Name: "Kolkata Knight Riders", NameKey: "kolkataknightriders", Short: "KKR", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-lsg", Name: "Lucknow Super Giants", NameKey: "lucknowsupergiants", Short: "LSG", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-mi", Name: "Mumbai Indians", NameKey: "mumbaiindians", Short: "MI", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-pbks", Name: "Punjab Kings", NameKey: "punjabkings", Short: "PBKS", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-rr", Name: "Rajasthan Royals", NameKey: "rajasthanroyals", Short: "RR", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-rcb", Name: "Royal Challengers Bangalore", NameKey: "royalchallengersbangalore", Short: "RCB", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
		{ID: "team-srh", Name: "Sunrisers Hyderabad", NameKey: "sunrisershyderabad", Short: "SRH", LogoURL: team.DefaultLogoURL, FoundedYear: team.DefaultFoundedYear},
	}
}
