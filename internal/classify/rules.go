package classify

// Rule tables backing the acceptance filter. They are plain data so the
// filter can be tuned or tested without touching control flow.

// DirectoryDomains are aggregator/listing sites that must never be treated
// as a company's own site, and whose mail domains are never accepted.
var DirectoryDomains = map[string]struct{}{
	"indiamart.com":       {},
	"tradeindia.com":      {},
	"justdial.com":        {},
	"tiimg.com":           {},
	"lens.indiamart.com":  {},
	"3dcondl.com":         {},
	"exportersindia.com":  {},
	"yellowpages.com":     {},
	"yellowpages.in":      {},
	"99corporates.com":    {},
	"dial4trade.com":      {},
	"aajjo.com":           {},
	"zoominfo.com":        {},
	"dnb.com":             {},
	"dunandbradstreet.com": {},
}

// serpNeverExtra extends the directory set with hosts that show up in search
// results but can never be a lead: social networks, registries, exchanges.
var serpNeverExtra = []string{
	"facebook.com", "youtube.com", "pinterest.com", "pinterest.co.in",
	"crunchbase.com", "linkedin.com", "zaubacorp.com", "instagram.com",
	"x.com", "twitter.com", "bseindia.com", "nseindia.com",
	"gem.gov.in", "gov.in", "nic.in",
}

// SERPNever is the full never-accept host set applied to search results.
var SERPNever = func() map[string]struct{} {
	m := make(map[string]struct{}, len(DirectoryDomains)+len(serpNeverExtra))
	for d := range DirectoryDomains {
		m[d] = struct{}{}
	}
	for _, d := range serpNeverExtra {
		m[d] = struct{}{}
	}
	return m
}()

// FreeMailDomains rank below corporate addresses when picking a lead email.
var FreeMailDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"rediffmail.com": {},
	"live.com":       {},
	"icloud.com":     {},
	"aol.com":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"yandex.com":     {},
	"zoho.com":       {},
	"gmx.com":        {},
}

// govEduSuffixes mark government and education hosts, which are rejected the
// same way directory domains are.
var govEduSuffixes = []string{".gov.in", ".nic.in", ".ac.in", ".edu", ".edu.in"}

// CandidatePaths is the fixed, ordered set of paths the scanner visits on a
// candidate site. Contact-bearing pages first, broader company pages after.
var CandidatePaths = []string{
	"/", "/contact", "/contact-us", "/about", "/about-us", "/team", "/people",
	"/reach-us", "/contactus", "/contacts", "/company", "/aboutus",
	"/who-we-are", "/impressum",
}

// titleBlacklist rejects pages whose title contains any of these terms.
var titleBlacklist = []string{
	"home", "jobs", "account suspended", "login", "sign in", "register",
	"instagram", "trader", "catalog", "marketplace",
}

// pathBlacklist rejects non-company sections of a site by URL path substring.
var pathBlacklist = []string{
	"/login", "/signin", "/register", "/account", "/careers", "/jobs",
	"/blog/", "/news", "/events", "/investor", "/privacy", "/terms",
}

// mustHaveKeywords gate acceptance in strict mode: the title or body snippet
// has to contain at least one of them.
var mustHaveKeywords = []string{
	"manufactur", "forg", "machin", "cnc", "hydraul", "gear", "flange",
	"crankshaft", "valve", "pump", "auto component",
}

// genericTitlePrefixes and genericNouns identify marketplace-style titles
// ("Buy X online", "Top 10 ...") that never name a single company.
var genericTitlePrefixes = []string{"find ", "buy ", "best ", "top ", "price", "prices"}

var genericNouns = map[string]struct{}{
	"home": {}, "jobs": {}, "trader": {}, "products": {}, "services": {},
	"contact": {}, "about": {}, "catalog": {}, "marketplace": {},
}

// TargetIndustries maps a keyword to an industry tag via its leading word.
var TargetIndustries = []string{
	"Automotive", "Automotive Components", "Mechanical Engineering",
	"Industrial Machinery", "Metals", "Forging", "Machine Manufacturing",
	"Heavy Engineering", "Construction", "EPC", "Oil & Gas",
	"Industrial Fabrication", "Aerospace", "Defence", "Steel Procurement",
	"Alloy Steel Buyers", "Steel Suppliers",
}

// TargetCompanyTypes are matched against the search keyword to tag a lead.
var TargetCompanyTypes = []string{
	"Forging Company", "Closed Die Forging", "Hot Forging Manufacturer",
	"Auto Components Manufacturer", "Automotive Parts Supplier",
	"Precision Machined Components", "CNC Machining Company",
	"Gear Manufacturer", "Transmission Parts Manufacturer",
	"Crankshaft Manufacturer", "Shafts Manufacturer", "Flanges Manufacturer",
	"Hydraulic Cylinder Manufacturer", "Pump & Valve Manufacturer",
	"Industrial Machinery Parts", "Heavy Engineering Components",
	"Alloy Steel Components", "Round Bar Buyers", "Steel Forging Supplier",
	"Tier 1 Auto Supplier", "Industrial Gearbox Manufacturer",
}
