package capture

// fetchIncidentsScript calls the page's own loader when it is exposed.
const fetchIncidentsScript = `() => {
	if (typeof window.fetchIncidents === 'function') {
		window.fetchIncidents();
	}
}`

// refreshAndScrollScript clicks known refresh affordances and scrolls to the
// bottom to trigger lazy loading.
const refreshAndScrollScript = `() => {
	const selectors = '[data-testid*="refresh"], [aria-label*="refresh"], .refresh-button, .reload-button';
	document.querySelectorAll(selectors).forEach(btn => btn.click());
	window.scrollTo(0, document.body.scrollHeight);
}`
