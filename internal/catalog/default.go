package catalog

// DefaultPath is where the root URL lands when no manifest overrides it.
const DefaultPath = "/home"

// Default returns the built-in catalog covering the full React course
// curriculum. A docshell.catalog.yml manifest replaces it entirely when
// present.
func Default() *Catalog {
	c, err := New(defaultSections(), DefaultPath)
	if err != nil {
		// The built-in declaration is validated by tests; reaching this
		// means the binary itself is broken.
		panic(err)
	}
	return c
}

func defaultSections() []Section {
	return []Section{
		{Name: "Getting Started", Topics: []Topic{
			{Path: "/home", Title: "Welcome", Anchors: []string{"how-to-read"}},
			{Path: "/intro/what-is-react", Title: "What is React", Anchors: []string{"declarative"}},
			{Path: "/intro/why-react", Title: "Why React"},
			{Path: "/intro/project-setup", Title: "Project Setup"},
			{Path: "/intro/folder-structure", Title: "Folder Structure"},
			{Path: "/intro/dev-tools", Title: "Developer Tools"},
			{Path: "/intro/debugging", Title: "Debugging", Anchors: []string{"common-errors"}},
		}},
		{Name: "JSX", Topics: []Topic{
			{Path: "/jsx/jsx-basics", Title: "JSX Basics", Anchors: []string{"one-root"}},
			{Path: "/jsx/expressions", Title: "Embedding Expressions"},
			{Path: "/jsx/attributes", Title: "JSX Attributes"},
			{Path: "/jsx/children", Title: "Children and Nesting"},
			{Path: "/jsx/fragments", Title: "Fragments"},
			{Path: "/jsx/conditional-rendering", Title: "Conditional Rendering"},
			{Path: "/jsx/lists-and-keys", Title: "Lists and Keys"},
		}},
		{Name: "Components", Topics: []Topic{
			{Path: "/components/function-components", Title: "Function Components"},
			{Path: "/components/props", Title: "Props"},
			{Path: "/components/prop-drilling", Title: "Prop Drilling"},
			{Path: "/components/composition", Title: "Composition"},
			{Path: "/components/children-prop", Title: "The children Prop"},
			{Path: "/components/styling", Title: "Styling Components"},
			{Path: "/components/controlled-inputs", Title: "Controlled Inputs"},
		}},
		{Name: "State & Events", Topics: []Topic{
			{Path: "/state/handling-events", Title: "Handling Events"},
			{Path: "/state/use-state", Title: "The useState Hook"},
			{Path: "/state/state-batching", Title: "State Batching"},
			{Path: "/state/lifting-state-up", Title: "Lifting State Up"},
			{Path: "/state/derived-state", Title: "Derived State"},
			{Path: "/state/immutability", Title: "Immutability"},
			{Path: "/state/forms", Title: "Working with Forms"},
		}},
		{Name: "Effects & Lifecycle", Topics: []Topic{
			{Path: "/effects/use-effect", Title: "The useEffect Hook"},
			{Path: "/effects/dependencies", Title: "Effect Dependencies"},
			{Path: "/effects/cleanup", Title: "Effect Cleanup"},
			{Path: "/effects/data-fetching", Title: "Data Fetching"},
			{Path: "/effects/refs", Title: "Refs and useRef"},
			{Path: "/effects/timers", Title: "Timers and Intervals"},
		}},
		{Name: "Hooks in Depth", Topics: []Topic{
			{Path: "/hooks/rules-of-hooks", Title: "Rules of Hooks"},
			{Path: "/hooks/use-context", Title: "useContext"},
			{Path: "/hooks/use-reducer", Title: "useReducer"},
			{Path: "/hooks/use-memo", Title: "useMemo"},
			{Path: "/hooks/use-callback", Title: "useCallback"},
			{Path: "/hooks/custom-hooks", Title: "Custom Hooks"},
		}},
		{Name: "Routing", Topics: []Topic{
			{Path: "/routing/client-side-routing", Title: "Client-Side Routing"},
			{Path: "/routing/route-declarations", Title: "Route Declarations"},
			{Path: "/routing/links-and-navigation", Title: "Links and Navigation"},
			{Path: "/routing/url-parameters", Title: "URL Parameters"},
			{Path: "/routing/nested-routes", Title: "Nested Routes"},
			{Path: "/routing/lazy-routes", Title: "Lazy-Loaded Routes"},
			{Path: "/routing/not-found-pages", Title: "Not-Found Pages"},
		}},
		{Name: "Performance", Topics: []Topic{
			{Path: "/performance/rendering", Title: "How Rendering Works"},
			{Path: "/performance/memoization", Title: "Memoization"},
			{Path: "/performance/code-splitting", Title: "Code Splitting"},
			{Path: "/performance/suspense", Title: "Suspense"},
			{Path: "/performance/profiling", Title: "Profiling"},
		}},
		{Name: "Patterns", Topics: []Topic{
			{Path: "/patterns/container-presentational", Title: "Container and Presentational"},
			{Path: "/patterns/render-props", Title: "Render Props"},
			{Path: "/patterns/compound-components", Title: "Compound Components"},
			{Path: "/patterns/error-boundaries", Title: "Error Boundaries"},
			{Path: "/patterns/portals", Title: "Portals"},
		}},
		{Name: "Ecosystem", Topics: []Topic{
			{Path: "/ecosystem/testing", Title: "Testing Components"},
			{Path: "/ecosystem/typescript", Title: "React with TypeScript"},
			{Path: "/ecosystem/state-libraries", Title: "State Libraries"},
			{Path: "/ecosystem/ssr-overview", Title: "Server Rendering Overview"},
			{Path: "/ecosystem/deployment", Title: "Deployment"},
			{Path: "/ecosystem/further-reading", Title: "Further Reading"},
		}},
	}
}
