package mcpserver

// LinkFormatContract describes the link collection shape that LLM
// consumers should follow when creating categories and links.
const LinkFormatContract = `# Wunjo Link Format Contract

The dashboard stores one flat collection of categories, each holding an
ordered list of links.

## Structure

` + "```" + `json
{
  "categories": [
    {
      "id": "work",
      "name": "Work",
      "links": [
        { "id": "1700000000000", "title": "OA", "url": "https://oa.example.com" }
      ]
    }
  ]
}
` + "```" + `

## Rules

1. **Category ids** are short, lowercase, URL-safe slugs (e.g. ` + "`" + `work` + "`" + `,
   ` + "`" + `home-lab` + "`" + `). They never change after creation; only the display
   name is editable.
2. **Category names** must be unique across the collection.
3. **Link ids** are server-assigned millisecond timestamps. Never invent
   one: create links through the create_link tool and use the id it
   returns.
4. **Link URLs** must start with ` + "`" + `http://` + "`" + ` or ` + "`" + `https://` + "`" + ` and contain
   a dot in the host part.
5. **Ordering matters.** Links render in stored order; new links are
   appended at the end of their category.
6. A link belongs to exactly one category at a time.
`
