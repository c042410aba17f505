package domain

// Category is an entry of the site's post taxonomy.
type Category struct {
	ID   string
	Name string
}

// Taxonomy is the fixed set of categories the site knows how to render.
// The categories endpoint intersects it with the categories actually
// present in the store; the "all" entry is always included.
var Taxonomy = []Category{
	{ID: CategoryAll, Name: "All Posts"},
	{ID: "cloud", Name: "Cloud"},
	{ID: "devops", Name: "DevOps"},
	{ID: "programming", Name: "Programming"},
	{ID: "ai", Name: "AI & ML"},
	{ID: "security", Name: "Security"},
	{ID: "databases", Name: "Databases"},
	{ID: "career", Name: "Career"},
}
