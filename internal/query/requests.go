package query

// SearchRequest carries the free-text autocomplete search parameters.
type SearchRequest struct {
	Q      string `form:"q"`
	Region string `form:"region"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=50"`
}

// Predicate builds the search predicate: the free-text term matches name,
// address or road address (OR group); the region code matches the sido or
// gugun code (OR group). The two groups are ANDed with each other.
func (r SearchRequest) Predicate() Predicate {
	p := NewPredicate()
	if r.Q != "" {
		p = p.And(ContainsAny([]string{"name", "address", "road_address"}, r.Q))
	}
	if r.Region != "" {
		p = p.And(AnyEquals([]string{"sido_code", "gugun_code"}, r.Region))
	}
	return p
}

// ListRequest carries the paginated listing parameters.
type ListRequest struct {
	Page         int    `form:"page,default=1" binding:"min=1"`
	Limit        int    `form:"limit,default=20" binding:"min=1,max=100"`
	Sido         string `form:"sido"`
	Gugun        string `form:"gugun"`
	Dong         string `form:"dong"`
	BuildYearMin *int   `form:"buildYearMin" binding:"omitempty,min=1970"`
	BuildYearMax *int   `form:"buildYearMax" binding:"omitempty,max=2030"`
	SortBy       string `form:"sortBy,default=name" binding:"oneof=name buildYear totalCount createdAt"`
	SortOrder    string `form:"sortOrder,default=asc" binding:"oneof=asc desc"`
}

// Predicate builds the listing predicate. Unlike the search region filter,
// sido/gugun/dong are exact matches ANDed together when more than one is
// supplied. The build-year range is open-ended on either side.
func (r ListRequest) Predicate() Predicate {
	p := NewPredicate()
	if r.Sido != "" {
		p = p.And(Equals("sido_code", r.Sido))
	}
	if r.Gugun != "" {
		p = p.And(Equals("gugun_code", r.Gugun))
	}
	if r.Dong != "" {
		p = p.And(Equals("dong_code", r.Dong))
	}
	if r.BuildYearMin != nil || r.BuildYearMax != nil {
		p = p.And(Range("build_year", r.BuildYearMin, r.BuildYearMax))
	}
	return p
}

// Resolve turns the page/limit/sort inputs into a Page descriptor. Name and
// id break ties so that pagination is stable.
func (r ListRequest) Resolve() (Page, error) {
	return ResolvePage(r.Page, r.Limit, r.SortBy, r.SortOrder, ListSortColumns, "name", "id")
}
