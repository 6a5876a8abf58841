package api

const (
	VideoDetailURL   = "https://api.bilibili.com/x/web-interface/view"
	VideoStreamURL   = "https://api.bilibili.com/x/player/wbi/playurl"
	BangumiDetailURL = "https://api.bilibili.com/pgc/view/web/season"
	BangumiStreamURL = "https://api.bilibili.com/pgc/player/web/playurl"
	CheeseDetailURL  = "https://api.bilibili.com/pugv/view/web/season"
	CheeseStreamURL  = "https://api.bilibili.com/pugv/player/web/playurl"
	NavURL           = "https://api.bilibili.com/x/web-interface/nav"
)

const (
	Origin    = "https://www.bilibili.com"
	Referer   = "https://www.bilibili.com"
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	Accept    = "application/json, text/plain, */*"

	// SessionCookie carries the session token on every request.
	SessionCookie = "SESSDATA"
)

// Upstream status codes.
const (
	CodeOK           = 0
	CodeNotLoggedIn  = -101
	CodeBadRequest   = -400
	CodeAuthLimit    = -403
	CodeNotFound     = -404
	CodeInvisible    = 62002
	CodeUnderReview  = 62004
	CodeRiskControl  = 87007
	CodeNeedPurchase = 87008
)
