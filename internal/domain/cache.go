package domain

// Имена представлений (view) в ключах кеша
const (
	ViewDashboardStats = "dashboard_stats"
	ViewPortfolio      = "portfolio"
)

// Ключи кеша — единое место, чтобы не расползались по коду.
// Формат: "{view}:{owner_id}[:{qualifier}]".
func CacheKey(view string, owner UserID, qualifier ...string) string {
	k := view + ":" + owner.String()
	for _, q := range qualifier {
		k += ":" + q
	}
	return k
}

func CacheKeyDashboardStats(owner UserID) string { return CacheKey(ViewDashboardStats, owner) }
func CacheKeyPortfolio(owner UserID) string      { return CacheKey(ViewPortfolio, owner) }
func CacheKeyTokenJTI(jti string) string         { return "jti:" + jti }

// Тег, которым помечаются все агрегаты владельца (грубая инвалидация).
func CacheTagOwner(owner UserID) string { return "cachetag:owner:" + owner.String() }
