// Package render converts typed domain records into their wire form:
// string identifiers, ISO-8601 timestamps, list envelopes with paging
// metadata and navigation links.
package render

import (
	"fmt"
	"net/url"
	"time"

	"github.com/siscomando/api/internal/api/domain"
)

// Prefix is the URL namespace every resource lives under.
const Prefix = "/api/v2"

// Doc is a wire-form document. Post hooks reshape these before they reach
// the client.
type Doc = map[string]any

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func emptyList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// SelfLink builds the canonical item link for a resource document.
func SelfLink(resource, id, title string) Doc {
	return Doc{
		"self": Doc{
			"href":  fmt.Sprintf("%s/%s/%s", Prefix, resource, id),
			"title": title,
		},
	}
}

// User renders a user document. The password hash is never rendered.
func User(u domain.User) Doc {
	return Doc{
		"_id":        u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"roles":      emptyList(u.Roles),
		"token":      u.Token,
		"md5_email":  u.MD5Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"location":   u.Location,
		"avatar":     u.Avatar,
		"owner":      u.Owner,
		"_created":   isoTime(u.CreatedAt),
		"_updated":   isoTime(u.UpdatedAt),
		"_links":     SelfLink("users", u.ID, u.Username),
	}
}

// EmbeddedUser renders a user for embedding inside another document, with
// the bearer token withheld along with the password hash.
func EmbeddedUser(u domain.User) Doc {
	d := User(u)
	delete(d, "token")
	return d
}

// Issue renders an issue document.
func Issue(i domain.Issue) Doc {
	return Doc{
		"_id":           i.ID,
		"title":         i.Title,
		"body":          i.Body,
		"register":      i.Register,
		"register_orig": i.RegisterOrig,
		"classifier":    i.Classifier,
		"ugat":          i.Ugat,
		"ugser":         i.Ugser,
		"deadline":      i.Deadline,
		"closed":        i.Closed,
		"_created":      isoTime(i.CreatedAt),
		"_updated":      isoTime(i.UpdatedAt),
		"_links":        SelfLink("issues", i.ID, i.Title),
	}
}

// IssueGroup renders one bucket of the grouped-issues aggregation.
func IssueGroup(g domain.IssueGroup) Doc {
	issues := make([]Doc, 0, len(g.Issues))
	for _, i := range g.Issues {
		issues = append(issues, Issue(i))
	}
	return Doc{
		"title":  g.Title,
		"issues": issues,
	}
}

// Comment renders a comment document. The resource parameter selects the
// URL namespace for the self link, since creation and read endpoints are
// different namespaces by design.
func Comment(c domain.Comment, resource string) Doc {
	d := Doc{
		"_id":      c.ID,
		"register": c.Register,
		"author":   c.Author,
		"title":    c.Title,
		"body":     c.Body,
		"hashtags": emptyList(c.Hashtags),
		"mentions": emptyList(c.Mentions),
		"origin":   c.Origin,
		"shottime": c.Shottime,
		"stars":    emptyList(c.Stars),
		"_created": isoTime(c.CreatedAt),
		"_updated": isoTime(c.UpdatedAt),
		"_links":   SelfLink(resource, c.ID, "Comment"),
	}
	if c.Issue != "" {
		d["issue"] = c.Issue
	}
	return d
}

// Star renders a star document.
func Star(s domain.Star) Doc {
	return Doc{
		"_id":      s.ID,
		"voter":    s.Voter,
		"comment":  s.Comment,
		"score":    s.Score,
		"_created": isoTime(s.CreatedAt),
		"_links":   SelfLink("stars", s.ID, "Star"),
	}
}

// List wraps rendered documents into the list envelope:
// _items plus _meta paging info plus _links navigation.
func List(resource string, items []Doc, page, maxResults, total int, query url.Values) Doc {
	if items == nil {
		items = []Doc{}
	}
	return Doc{
		"_items": items,
		"_meta": Doc{
			"page":        page,
			"max_results": maxResults,
			"total":       total,
		},
		"_links": listLinks(resource, page, maxResults, total, query),
	}
}

func listLinks(resource string, page, maxResults, total int, query url.Values) Doc {
	pageHref := func(p int) string {
		q := url.Values{}
		for k, vs := range query {
			// page is rebuilt below; everything else carries over.
			if k == "page" {
				continue
			}
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		if p > 1 {
			q.Set("page", fmt.Sprintf("%d", p))
		}
		href := fmt.Sprintf("%s/%s", Prefix, resource)
		if encoded := q.Encode(); encoded != "" {
			href += "?" + encoded
		}
		return href
	}

	links := Doc{
		"self":   Doc{"href": pageHref(page), "title": resource},
		"parent": Doc{"href": Prefix, "title": "home"},
	}

	lastPage := 1
	if total > 0 {
		lastPage = (total + maxResults - 1) / maxResults
	}
	if page < lastPage {
		links["next"] = Doc{"href": pageHref(page + 1), "title": "next page"}
		links["last"] = Doc{"href": pageHref(lastPage), "title": "last page"}
	}
	if page > 1 {
		links["prev"] = Doc{"href": pageHref(page - 1), "title": "previous page"}
	}
	return links
}
