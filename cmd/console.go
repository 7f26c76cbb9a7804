package main

import (
	"bufio"
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"io"
	"strconv"
	"strings"
	"sync"
)

const helpText = `commands:
  search <text>           type into the search field (committed after a pause)
  type <Remote|Hybrid|Onsite|any>
  level <Internship|Junior|Mid|Senior|any>
  skills [a,b,...]        require skills; without arguments lists the known ones
  salary <min> <max>
  sort <date-desc|salary-desc|salary-asc>
  page <n> | next | prev
  size <n>                items per page
  view <grid|list>
  bookmark <job id>       toggle a bookmark
  tracker                 list bookmarked jobs
  clear                   reset filters and sort
  show | help | quit`

// console is the line-oriented presentation used by the binary: it turns lines into board intents
// and prints what the board derives.
type console struct {
	mu     sync.Mutex
	board  *services.JobBoard
	search *services.SearchInput
	out    io.Writer
}

func newConsole(board *services.JobBoard, search *services.SearchInput, out io.Writer) *console {
	return &console{board: board, search: search, out: out}
}

func (c *console) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	c.printPage()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || !c.execute(ctx, line) {
				return
			}
		}
	}
}

// execute handles one line and reports whether the loop should go on.
func (c *console) execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch command {
	case "quit", "exit":
		return false
	case "help":
		c.println(helpText)
	case "show":
		c.printPage()
	case "search":
		c.search.Type(rest)
	case "type":
		c.applied(c.board.SetFilter(models.JobTypeField, anyToEmpty(rest)))
	case "level":
		c.applied(c.board.SetFilter(models.ExperienceLevelField, anyToEmpty(rest)))
	case "skills":
		if rest == "" {
			c.println("skills: " + strings.Join(c.board.AvailableSkills(), ", "))
			return true
		}
		skills := lo.Map(strings.Split(rest, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
		c.applied(c.board.SetFilter(models.SkillsField, skills))
	case "salary":
		c.applied(c.setSalary(args))
	case "sort":
		c.applied(c.board.SetSortBy(models.SortKey(rest)))
	case "page":
		page, err := strconv.Atoi(rest)
		c.applied(err == nil && c.board.SetCurrentPage(page))
	case "next":
		c.applied(c.board.SetCurrentPage(c.board.State().CurrentPage + 1))
	case "prev":
		c.applied(c.board.SetCurrentPage(c.board.State().CurrentPage - 1))
	case "size":
		size, err := strconv.Atoi(rest)
		c.applied(err == nil && c.board.SetItemsPerPage(size))
	case "view":
		c.applied(c.board.SetViewMode(models.ViewMode(rest)))
	case "bookmark":
		c.toggleBookmark(ctx, models.JobID(rest))
	case "tracker":
		c.printTracker()
	case "clear":
		c.board.ClearAllFilters()
		c.search.Clear()
	default:
		c.printf("unknown command %q, type help\n", command)
	}
	return true
}

func (c *console) setSalary(args []string) bool {
	if len(args) != 2 {
		return false
	}
	minSalary, err := strconv.Atoi(args[0])
	if err != nil {
		return false
	}
	maxSalary, err := strconv.Atoi(args[1])
	if err != nil {
		return false
	}
	return c.board.SetFilter(models.SalaryRangeField, []int{minSalary, maxSalary})
}

func (c *console) toggleBookmark(ctx context.Context, id models.JobID) {
	if _, ok := c.board.GetJobByID(id); !ok && !c.board.IsBookmarked(id) {
		c.printf("no job with id %s\n", id)
		return
	}

	if _, err := c.board.ToggleBookmark(ctx, id); err != nil && !errors.Is(err, services.ErrBookmarksNotPersisted) {
		c.printf("bookmark failed: %v\n", err)
	}
}

// applied only reports rejected intents; accepted ones are rendered from QueryChanged.
func (c *console) applied(ok bool) {
	if !ok {
		c.println("ignored: invalid value")
	}
}

func (c *console) subscribe(bus EventBus.Bus) error {
	handlers := map[string]any{
		events.QueryChangedTopic:          c.onQueryChanged,
		events.BookmarkToggledTopic:       c.onBookmarkToggled,
		events.BookmarkPersistFailedTopic: c.onBookmarkPersistFailed,
		events.SearchCommittedTopic:       c.onSearchCommitted,
	}
	for topic, handler := range handlers {
		if err := bus.Subscribe(topic, handler); err != nil {
			return errors.Wrapf(err, "can't subscribe to %s", topic)
		}
	}
	return nil
}

func (c *console) onQueryChanged(_ events.QueryChanged) {
	c.printPage()
}

func (c *console) onSearchCommitted(e events.SearchCommitted) {
	c.printf("search committed: %q\n", e.Query)
}

func (c *console) onBookmarkToggled(e events.BookmarkToggled) {
	state := "removed from"
	if e.Bookmarked {
		state = "added to"
	}
	c.printf("job %s %s bookmarks (%d total)\n", e.JobID, state, e.Total)
}

func (c *console) onBookmarkPersistFailed(e events.BookmarkPersistFailed) {
	c.printf("warning: bookmark for job %s was not saved and will be retried: %v\n", e.JobID, e.Err)
}

func (c *console) printPage() {
	state := c.board.State()
	page := c.board.GetPage()

	var b strings.Builder
	fmt.Fprintf(&b, "%d jobs match, %d active filters, sorted by %s\n",
		page.TotalMatching, state.Filters.ActiveCount(), state.SortBy)

	if len(page.Items) == 0 {
		b.WriteString("  no jobs on this page\n")
	}
	for _, job := range page.Items {
		mark := " "
		if c.board.IsBookmarked(job.ID) {
			mark = "*"
		}
		if state.ViewMode == models.ListView {
			fmt.Fprintf(&b, "%s [%s] %s at %s\n", mark, job.ID, job.Title, c.board.GetCompanyName(job.CompanyID))
			continue
		}
		fmt.Fprintf(&b, "%s [%s] %s\n    %s | %s | %s | %s | %d | %s\n", mark, job.ID, job.Title,
			c.board.GetCompanyName(job.CompanyID), job.Location, job.JobType, job.ExperienceLevel,
			job.Salary, strings.Join(job.Skills, ", "))
	}

	if page.TotalPages > 0 {
		links := lo.Map(services.PageNumbers(page.CurrentPage, page.TotalPages), func(n int, _ int) string {
			switch n {
			case services.Ellipsis:
				return "..."
			case page.CurrentPage:
				return fmt.Sprintf("(%d)", n)
			default:
				return strconv.Itoa(n)
			}
		})
		fmt.Fprintf(&b, "pages: %s\n", strings.Join(links, " "))
	}
	c.println(strings.TrimRight(b.String(), "\n"))
}

func (c *console) printTracker() {
	jobs := c.board.BookmarkedJobs()
	if len(jobs) == 0 {
		c.println("no bookmarked jobs")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d bookmarked jobs\n", len(jobs))
	for _, job := range jobs {
		fmt.Fprintf(&b, "* [%s] %s at %s\n", job.ID, job.Title, c.board.GetCompanyName(job.CompanyID))
	}
	c.println(strings.TrimRight(b.String(), "\n"))
}

func (c *console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func anyToEmpty(value string) string {
	if strings.EqualFold(value, "any") {
		return ""
	}
	return value
}
