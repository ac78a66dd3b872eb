package catalog

// DefaultProjects is the projects grid shown on the site.
func DefaultProjects() []Item {
	return []Item{
		{ID: "ecommerce-platform", Title: "E-Commerce Platform", Category: "web"},
		{ID: "ai-content-generator", Title: "AI Content Generator", Category: "ai"},
		{ID: "fitness-tracker", Title: "Fitness Tracker App", Category: "mobile"},
		{ID: "product-showcase-3d", Title: "3D Product Showcase", Category: "3d"},
		{ID: "banking-redesign", Title: "Banking App Redesign", Category: "design"},
	}
}

// DefaultSkills is the skills grid shown on the site.
func DefaultSkills() []Item {
	return []Item{
		{ID: "react", Title: "React.js", Category: "frontend"},
		{ID: "vue", Title: "Vue.js", Category: "frontend"},
		{ID: "typescript", Title: "JavaScript/TypeScript", Category: "frontend"},
		{ID: "tailwind", Title: "Tailwind CSS", Category: "frontend"},
		{ID: "node", Title: "Node.js, Express", Category: "backend"},
		{ID: "python", Title: "Python, Django", Category: "backend"},
		{ID: "databases", Title: "PostgreSQL, MongoDB", Category: "backend"},
		{ID: "graphql", Title: "REST APIs, GraphQL", Category: "backend"},
		{ID: "git-docker-aws", Title: "Git, Docker, AWS", Category: "tools"},
		{ID: "figma", Title: "Figma, Adobe XD", Category: "tools"},
		{ID: "threejs", Title: "Three.js, GSAP", Category: "tools"},
	}
}
