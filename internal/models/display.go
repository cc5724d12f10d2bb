package models

// DisplayName implementations feed the human-readable entity name of
// audit records.

func (m *Member) DisplayName() string           { return m.Name }
func (e *Event) DisplayName() string            { return e.Name }
func (r *Registration) DisplayName() string     { return r.FullName }
func (d *DonationCampaign) DisplayName() string { return d.Name }
func (m *MerchandiseItem) DisplayName() string  { return m.Name }
func (p *DonationPackage) DisplayName() string  { return p.Name }
func (a *Announcement) DisplayName() string     { return a.Title }
func (g *GalleryCategory) DisplayName() string  { return g.Name }
func (g *GalleryItem) DisplayName() string      { return g.Title }
func (f *FAQ) DisplayName() string              { return f.Question }
func (s *ScheduleCategory) DisplayName() string { return s.Name }
func (s *Schedule) DisplayName() string         { return s.Title }
func (o *OrgChartEntry) DisplayName() string    { return o.Name }
func (s *Suggestion) DisplayName() string       { return s.Name }
func (g *GeneralInfo) DisplayName() string      { return g.Title }
