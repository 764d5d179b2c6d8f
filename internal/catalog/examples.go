package catalog

// examplesData is the gallery of pattern demos with their full searchable
// content. To add a new example, append an entry here; the search index
// picks it up on the next rebuild.
var examplesData = []ExampleRecord{
	{
		ID:          "active-search",
		Title:       "Active Search",
		Description: "Real-time search with instant results as you type",
		Content:     "Active Search example demonstrating real-time search functionality. Shows how to implement instant search with Server-Sent Events and ranked substring filtering over the gallery catalog.",
		URL:         "/active-search/",
		Category:    "Search",
	},
	{
		ID:          "click-to-load",
		Title:       "Click to Load",
		Description: "Load more content on button click with progressive loading",
		Content:     "Click to Load example showing progressive loading pattern. Demonstrates lazy loading content on button click using server-rendered fragments and Server-Sent Events for dynamic DOM updates.",
		URL:         "/click-to-load/",
		Category:    "Interactive",
	},
	{
		ID:          "edit-row",
		Title:       "Edit Row",
		Description: "Inline editing of table rows with immediate feedback",
		Content:     "Edit Row example for inline table editing. Shows how to implement inline editing with immediate visual feedback using patched fragments and server-side form handling.",
		URL:         "/edit-row/",
		Category:    "CRUD",
	},
	{
		ID:          "delete-row",
		Title:       "Delete Row",
		Description: "Remove rows with confirmation and visual feedback",
		Content:     "Delete Row example demonstrating row deletion with visual feedback. Implements element removal for smooth DOM updates after server-side deletion.",
		URL:         "/delete-row/",
		Category:    "CRUD",
	},
	{
		ID:          "todo-mvc",
		Title:       "TodoMVC",
		Description: "Full todo application with add, toggle, and delete functionality",
		Content:     "TodoMVC example showing complete todo application. Implements add, toggle, complete, and delete functionality using Server-Sent Events for real-time updates.",
		URL:         "/todo-mvc/",
		Category:    "Interactive",
	},
	{
		ID:          "inline-validation",
		Title:       "Inline Validation",
		Description: "Real-time form validation with instant feedback",
		Content:     "Inline Validation example demonstrates real-time form field validation. Shows how to validate email, username, and password fields with instant feedback.",
		URL:         "/inline-validation/",
		Category:    "Interactive",
	},
	{
		ID:          "infinite-scroll",
		Title:       "Infinite Scroll",
		Description: "Automatically load more content as you scroll",
		Content:     "Infinite Scroll example implementing automatic content loading on scroll. Loads and appends new items seamlessly without page refresh.",
		URL:         "/infinite-scroll/",
		Category:    "Real-time",
	},
	{
		ID:          "lazy-tabs",
		Title:       "Lazy Tabs",
		Description: "Tabbed interface with lazy-loaded content",
		Content:     "Lazy Tabs example demonstrates tabbed navigation with lazy-loaded content. Shows how to load tab content dynamically with server-rendered fragments.",
		URL:         "/lazy-tabs/",
		Category:    "Interactive",
	},
	{
		ID:          "file-upload",
		Title:       "File Upload",
		Description: "File upload with progress indication and feedback",
		Content:     "File Upload example showing file upload handling with progress indication and server-side processing.",
		URL:         "/file-upload/",
		Category:    "Interactive",
	},
	{
		ID:          "sortable",
		Title:       "Sortable",
		Description: "Drag and drop reordering of items",
		Content:     "Sortable example implementing drag and drop reordering. Shows how to handle drag events and persist the new item order on the server.",
		URL:         "/sortable/",
		Category:    "Interactive",
	},
	{
		ID:          "notifications",
		Title:       "Notifications",
		Description: "Real-time notification system with count updates",
		Content:     "Notifications example demonstrating real-time notification system. Shows how to implement notification count updates and mark-as-read functionality with server signals.",
		URL:         "/notifications/",
		Category:    "Real-time",
	},
	{
		ID:          "bulk-update",
		Title:       "Bulk Update",
		Description: "Select and update multiple items at once",
		Content:     "Bulk Update example for selecting and updating multiple items. Demonstrates batch operations for efficient bulk delete and update.",
		URL:         "/bulk-update/",
		Category:    "CRUD",
	},
}
