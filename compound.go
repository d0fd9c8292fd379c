package docxml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var innerKinds = map[string]string{
	"class":     "innerclass",
	"struct":    "innerclass",
	"union":     "innerclass",
	"namespace": "innernamespace",
	"file":      "innerfile",
	"group":     "innergroup",
	"page":      "innerpage",
	"dir":       "innerdir",
}

// recordID returns the id of the record written for c. Page ids are
// lower-cased unless caseSensitive is set.
func recordID(c *Compound, caseSensitive bool) string {
	if c.Kind == "page" && !caseSensitive {
		return strings.ToLower(c.ID)
	}
	return c.ID
}

func (e *Emitter) compoundID(c *Compound) string {
	return recordID(c, e.cfg.caseSensitive)
}

// WriteCompound appends the record of c.
func (e *Emitter) WriteCompound(c *Compound) error {
	if c == nil {
		return fmt.Errorf("compound: nil")
	}
	id := e.compoundID(c)
	o := &e.out
	o.writeString("  <compounddef")
	o.attr("id", id)
	o.attr("kind", c.Kind)
	if c.Language != "" {
		o.attr("language", c.Language)
	}
	if c.Prot != "" {
		o.attr("prot", c.Prot)
	}
	o.writeString(">\n")

	o.writeString("    <compoundname>")
	o.escape(c.Name)
	o.writeString("</compoundname>\n")

	for _, b := range c.Bases {
		o.compoundRef("basecompoundref", b)
	}
	for _, d := range c.Derived {
		o.compoundRef("derivedcompoundref", d)
	}
	for _, inc := range c.Includes {
		o.include("includes", inc)
	}
	for _, inc := range c.IncludedBy {
		o.include("includedby", inc)
	}
	for _, in := range c.Inner {
		tag, ok := innerKinds[in.Kind]
		if !ok {
			tag = "innerclass"
		}
		o.writeString("    <" + tag)
		if in.Ref != "" {
			o.attr("refid", in.Ref)
		}
		if in.Prot != "" {
			o.attr("prot", in.Prot)
		}
		o.writeString(">")
		o.escape(in.Name)
		o.writeString("</" + tag + ">\n")
	}
	if c.Title != "" {
		o.writeString("    <title>")
		o.escape(c.Title)
		o.writeString("</title>\n")
	}

	for _, s := range c.Sections {
		if err := e.writeSection(c, s); err != nil {
			return fmt.Errorf("compound %s: %w", c.ID, err)
		}
	}

	if err := e.writeDescription("    ", "briefdescription", c.Brief, id); err != nil {
		return fmt.Errorf("compound %s: %w", c.ID, err)
	}
	if err := e.writeDescription("    ", "detaileddescription", c.Detailed, id); err != nil {
		return fmt.Errorf("compound %s: %w", c.ID, err)
	}
	if err := e.writeListing(c.Listing); err != nil {
		return fmt.Errorf("compound %s: %w", c.ID, err)
	}
	o.location("    ", c.Location)
	o.writeString("  </compounddef>\n")
	return nil
}

func (e *Emitter) writeSection(c *Compound, s *MemberSection) error {
	if s == nil {
		return nil
	}
	members := make([]*Member, 0, len(s.Members))
	for _, m := range s.Members {
		// enum values are written inside their enum
		if m.Kind != "enumvalue" {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil
	}
	o := &e.out
	o.writeString("    <sectiondef")
	o.attr("kind", s.Kind)
	o.writeString(">\n")
	if s.Header != "" {
		o.writeString("      <header>")
		o.escape(s.Header)
		o.writeString("</header>\n")
	}
	if s.Description != "" {
		if err := e.writeDescription("      ", "description", s.Description, e.compoundID(c)); err != nil {
			return err
		}
	}
	for _, m := range members {
		if err := e.writeMember(c, m); err != nil {
			return fmt.Errorf("member %s: %w", m.ID, err)
		}
	}
	o.writeString("    </sectiondef>\n")
	return nil
}

// writeDescription renders Markdown rich text as one block inside tag. The
// block goes through a clone so its tracker state never leaks into the
// record. An unbalanced block is logged and kept unless the emitter is
// strict.
func (e *Emitter) writeDescription(indent, tag, src, idPrefix string) error {
	e.out.writeString(indent + "<" + tag + ">\n")
	if strings.TrimSpace(src) != "" {
		child := e.Clone()
		err := ConvertMarkdown([]byte(src), idPrefix, child)
		if err == nil {
			err = child.EndBlock()
		}
		e.Append(child)
		if err != nil {
			if !errors.Is(err, ErrUnbalanced) || e.cfg.strict {
				return fmt.Errorf("%s: %w", tag, err)
			}
			e.cfg.logger.Warn("unbalanced description",
				slog.String("element", tag),
				slog.String("scope", idPrefix),
				slog.Any("error", err))
		}
	}
	e.out.writeString(indent + "</" + tag + ">\n")
	return nil
}

func (o *output) compoundRef(tag string, r Ref) {
	o.writeString("    <" + tag)
	if r.Ref != "" {
		o.attr("refid", r.Ref)
	}
	prot := r.Prot
	if prot == "" {
		prot = "public"
	}
	o.attr("prot", prot)
	virt := r.Virt
	if virt == "" {
		virt = "non-virtual"
	}
	o.attr("virt", virt)
	o.writeString(">")
	o.escape(r.Name)
	o.writeString("</" + tag + ">\n")
}

func (o *output) include(tag string, inc Include) {
	o.writeString("    <" + tag)
	if inc.Ref != "" {
		o.attr("refid", inc.Ref)
	}
	if inc.Local {
		o.attr("local", "yes")
	} else {
		o.attr("local", "no")
	}
	o.writeString(">")
	o.escape(inc.Name)
	o.writeString("</" + tag + ">\n")
}

func (o *output) location(indent string, loc *Location) {
	if loc == nil || loc.File == "" {
		return
	}
	o.writeString(indent + "<location")
	o.attr("file", loc.File)
	if loc.Line > 0 {
		o.attrInt("line", loc.Line)
	}
	if loc.BodyFile != "" {
		o.attr("bodyfile", loc.BodyFile)
		o.attrInt("bodystart", loc.BodyStart)
		o.attrInt("bodyend", loc.BodyEnd)
	}
	o.writeString("/>\n")
}
