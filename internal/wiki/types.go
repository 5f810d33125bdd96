package wiki

// apiError is the error object the API may return with status 200.
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type searchResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		SearchInfo struct {
			TotalHits int `json:"totalhits"`
		} `json:"searchinfo"`
		Search []struct {
			NS     int    `json:"ns"`
			Title  string `json:"title"`
			PageID int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

type linksResponse struct {
	Error    *apiError `json:"error"`
	Continue struct {
		PLContinue string `json:"plcontinue"`
	} `json:"continue"`
	Query struct {
		Pages map[string]linksPage `json:"pages"`
	} `json:"query"`
}

type linksPage struct {
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
	// Missing and Invalid are present (as "") only when set.
	Missing *string `json:"missing"`
	Invalid *string `json:"invalid"`
	Links   []struct {
		NS    int    `json:"ns"`
		Title string `json:"title"`
	} `json:"links"`
}
