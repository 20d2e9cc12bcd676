package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/mapsurface"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/pkg/logger"
	"github.com/vendor-discovery/internal/session"
	"github.com/vendor-discovery/internal/usecase/dto"
)

// ScreenDeps - общие для всех экранов зависимости
type ScreenDeps struct {
	Directory   repository.DirectoryRepository
	Geolocation repository.GeolocationProvider
	MapLoader   *mapsurface.Loader
	Directions  *Directions
	Logger      *zap.Logger
}

// SearchScreen - экран поиска: критерии, список продавцов, карта,
// drill-down до отзывов. Все изменения состояния идут под s.mu; сетевые
// вызовы выполняются в горутинах и возвращаются под тот же мьютекс.
type SearchScreen struct {
	mu sync.Mutex

	id         uuid.UUID
	directory  repository.DirectoryRepository
	geo        repository.GeolocationProvider
	directions *Directions
	logger     *zap.Logger

	query    *DiscoveryQuery
	nav      *DrillNavigator
	composer *ReviewComposer
	surface  *mapsurface.Surface

	ctx     context.Context
	cancel  context.CancelFunc
	pending inflight

	sess          session.Context
	criteria      domain.SearchCriteria
	vendors       []domain.Vendor
	searchLoading bool
	searched      bool
	userLocation  *domain.Coordinate
	lastErr       error
	lastActive    time.Time
}

func NewSearchScreen(id uuid.UUID, deps ScreenDeps) *SearchScreen {
	ctx, cancel := context.WithCancel(context.Background())
	log := logger.Screen(deps.Logger, id.String())

	directions := deps.Directions
	if directions == nil {
		directions = NewDirections("")
	}

	s := &SearchScreen{
		id:         id,
		directory:  deps.Directory,
		geo:        deps.Geolocation,
		directions: directions,
		logger:     log,
		query:      NewDiscoveryQuery(deps.Directory, log),
		nav:        NewDrillNavigator(),
		composer:   NewReviewComposer(deps.Directory, log),
		surface:    mapsurface.New(deps.MapLoader, log),
		ctx:        ctx,
		cancel:     cancel,
		sess:       session.Context{ScreenID: id},
		criteria:   domain.NewSearchCriteria(),
		vendors:    []domain.Vendor{},
		lastActive: time.Now(),
	}
	s.pending.cond = sync.NewCond(&s.pending.mu)
	return s
}

func (s *SearchScreen) ID() uuid.UUID {
	return s.id
}

// Start mounts the map and, when locate is set, asks for the user's
// location in the background.
func (s *SearchScreen) Start(ctx context.Context, container domain.MapContainer, center *domain.Coordinate, locate bool) {
	s.InitializeMap(container, center)
	if locate {
		s.Locate(ctx, false)
	}
}

// InitializeMap initialises the map surface in the background. Once ready
// the current results are plotted.
func (s *SearchScreen) InitializeMap(container domain.MapContainer, center *domain.Coordinate) {
	s.spawn(func(ctx context.Context) {
		handle, err := s.surface.Initialize(ctx, container, center)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil || handle == nil {
			return
		}
		if len(s.vendors) > 0 {
			s.surface.Plot(domain.VendorEntities(s.vendors))
		} else if s.userLocation != nil && !s.searched && center == nil {
			s.surface.CenterOn(*s.userLocation)
		}
	})
}

// Locate requests the user's location once. An implicit request (explicit
// false) that resolves after a search was submitted only records the user
// location; it does not move the search origin or the map.
func (s *SearchScreen) Locate(ctx context.Context, explicit bool) {
	clientIP := session.ClientIPFrom(ctx)

	s.mu.Lock()
	sc := s.sess
	s.touch()
	s.mu.Unlock()

	s.spawn(func(ctx context.Context) {
		ctx = session.NewContext(session.WithClientIP(ctx, clientIP), sc)
		loc, err := s.geo.RequestLocation(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Debug("Geolocation failed",
				zap.Bool("explicit", explicit),
				zap.Error(err))
			s.lastErr = err
			return
		}

		s.userLocation = &loc
		if explicit || !s.searched {
			s.criteria = s.criteria.WithOrigin(loc)
			s.surface.CenterOn(loc)
		}
	})
}

// UpdateCriteria edits the search form.
func (s *SearchScreen) UpdateCriteria(req dto.CriteriaRequest) domain.SearchCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if req.ClearOrigin {
		s.criteria.Latitude = nil
		s.criteria.Longitude = nil
	}
	if req.Latitude != nil {
		lat := *req.Latitude
		s.criteria.Latitude = &lat
	}
	if req.Longitude != nil {
		lon := *req.Longitude
		s.criteria.Longitude = &lon
	}
	if req.RadiusKm != nil {
		s.criteria.RadiusKm = *req.RadiusKm
	}
	if req.ClearCategory {
		s.criteria.Category = ""
	}
	if req.Category != nil {
		s.criteria.Category = *req.Category
	}
	return s.criteria
}

// Search submits the current criteria. Validation errors are returned
// right away; the backend call runs in the background and only the latest
// search may replace the results.
func (s *SearchScreen) Search() error {
	s.mu.Lock()
	s.touch()

	req, err := s.query.Begin(s.criteria)
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	s.searched = true
	s.searchLoading = true
	s.lastErr = nil
	sc := s.sess
	s.mu.Unlock()

	s.spawn(func(ctx context.Context) {
		vendors, err := s.query.Run(session.NewContext(ctx, sc), req)

		s.mu.Lock()
		defer s.mu.Unlock()

		if errors.Is(err, errors.ErrSuperseded) || !s.query.IsCurrent(req.Generation) {
			return
		}
		s.searchLoading = false
		if err != nil {
			if ctx.Err() == nil {
				s.lastErr = err
			}
			return
		}

		s.vendors = vendors
		s.nav.Reset()
		s.composer.Close()
		s.surface.Plot(domain.VendorEntities(vendors))
	})
	return nil
}

// SelectVendor drills into the vendor at index of the result list.
func (s *SearchScreen) SelectVendor(index int) error {
	s.mu.Lock()
	s.touch()

	if index < 0 || index >= len(s.vendors) {
		s.mu.Unlock()
		return errors.ErrNoSelection
	}

	s.composer.Close()
	s.lastErr = nil
	fetch, err := s.nav.SelectVendor(s.vendors[index])
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	sc := s.sess
	s.mu.Unlock()

	s.spawn(func(ctx context.Context) {
		products, err := s.directory.ProductsByVendor(session.NewContext(ctx, sc), fetch.ID)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.nav.ApplyProducts(fetch, products, err) && err != nil && ctx.Err() == nil {
			s.lastErr = err
		}
	})
	return nil
}

// SelectProduct drills into the product at index of the selected vendor's
// product list.
func (s *SearchScreen) SelectProduct(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var products []domain.Product
	switch st := s.nav.State().(type) {
	case domain.VendorSelected:
		products = st.Products
	case domain.ProductSelected:
		products = st.Parent.Products
	default:
		return errors.ErrInvalidTransition
	}
	if index < 0 || index >= len(products) {
		return errors.ErrNoSelection
	}

	s.composer.Close()
	fetch, err := s.nav.SelectProduct(products[index])
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	s.loadReviews(fetch)
	return nil
}

// loadReviews fetches reviews and the rating together. Caller holds s.mu.
func (s *SearchScreen) loadReviews(fetch Fetch) {
	sc := s.sess
	s.spawn(func(ctx context.Context) {
		ctx = session.NewContext(ctx, sc)

		var (
			wg     sync.WaitGroup
			rating *domain.ProductRating
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.directory.ProductRating(ctx, fetch.ID)
			if err != nil {
				s.logger.Debug("Product rating unavailable", zap.Int64("product_id", fetch.ID), zap.Error(err))
				return
			}
			rating = r
		}()
		reviews, err := s.directory.ReviewsByProduct(ctx, fetch.ID)
		wg.Wait()

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.nav.ApplyReviews(fetch, reviews, rating, err) && err != nil && ctx.Err() == nil {
			s.lastErr = err
		}
	})
}

// Back goes up one drill level and closes the review form.
func (s *SearchScreen) Back() domain.DrillLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.nav.Back() {
		s.composer.Close()
	}
	return s.nav.Level()
}

// ToggleReviewForm opens or closes the review form of the selected product.
func (s *SearchScreen) ToggleReviewForm() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.nav.Level() != domain.LevelProductSelected {
		return false, errors.ErrInvalidTransition
	}
	return s.composer.Toggle(), nil
}

func (s *SearchScreen) EditReviewForm(rating int, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.nav.Level() != domain.LevelProductSelected {
		return errors.ErrInvalidTransition
	}
	return s.composer.Edit(rating, comment)
}

// SubmitReview posts the form for the selected product. On success the
// reviews and rating are re-read from the backend and the form is reset
// and closed; on failure the form stays as it was.
func (s *SearchScreen) SubmitReview(ctx context.Context) (*domain.Review, error) {
	s.mu.Lock()
	s.touch()
	st, ok := s.nav.State().(domain.ProductSelected)
	if !ok {
		s.mu.Unlock()
		return nil, errors.ErrInvalidTransition
	}
	form := s.composer.Form()
	sc := s.sess
	productID := st.Product.ID
	s.mu.Unlock()

	created, err := s.composer.Submit(ctx, sc, productID, form)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		return nil, err
	}

	s.lastErr = nil
	s.composer.Complete()
	if cur, ok := s.nav.State().(domain.ProductSelected); ok && cur.Product.ID == productID {
		if fetch, err := s.nav.RefreshReviews(); err == nil {
			s.loadReviews(fetch)
		}
	}
	return created, nil
}

// ClickMarker returns the popup of a plotted marker.
func (s *SearchScreen) ClickMarker(markerID string) (domain.InfoPopup, error) {
	popup, ok := s.surface.Click(markerID)
	if !ok {
		return domain.InfoPopup{}, errors.ErrNoSelection
	}
	return popup, nil
}

func (s *SearchScreen) RenderMap(width, height int) ([]byte, error) {
	return s.surface.Render(width, height)
}

// DirectionsTo builds the directions hand-off to the vendor at index,
// starting from the user's location when known.
func (s *SearchScreen) DirectionsTo(index int) (DirectionsLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if index < 0 || index >= len(s.vendors) {
		return DirectionsLink{}, errors.ErrNoSelection
	}
	link, err := s.directions.For(s.vendors[index], s.userLocation)
	if err != nil {
		s.lastErr = err
		return DirectionsLink{}, err
	}
	return link, nil
}

// ApplyIdentity sets or clears (nil) the logged-in identity. Logging out
// closes the review form.
func (s *SearchScreen) ApplyIdentity(identity *domain.Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.Identity = identity
	s.sess.Token = token
	if identity == nil {
		s.sess.Token = ""
		s.composer.Close()
	}
}

func (s *SearchScreen) Session() session.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func (s *SearchScreen) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Wait blocks until all background work has settled.
func (s *SearchScreen) Wait() {
	s.pending.wait()
}

// Close cancels background work and waits for it.
func (s *SearchScreen) Close() {
	s.cancel()
	s.Wait()
}

// View renders the screen state.
func (s *SearchScreen) View() dto.ScreenView {
	s.mu.Lock()
	defer s.mu.Unlock()

	origin, hasOrigin := s.criteria.Origin()
	var originPtr *domain.Coordinate
	if hasOrigin && origin.Valid() {
		originPtr = &origin
	}

	form := s.composer.Form()
	view := dto.ScreenView{
		ID:    s.id.String(),
		Level: s.nav.Level(),
		Criteria: dto.CriteriaView{
			Latitude:  s.criteria.Latitude,
			Longitude: s.criteria.Longitude,
			RadiusKm:  s.criteria.RadiusKm,
			Category:  s.criteria.Category,
		},
		Loading:      dto.LoadingView{Search: s.searchLoading},
		Error:        errorView(s.lastErr),
		Vendors:      make([]dto.VendorView, 0, len(s.vendors)),
		Products:     []dto.ProductView{},
		Reviews:      []dto.ReviewView{},
		ReviewForm:   dto.ReviewFormView{Open: form.Open, Rating: form.Rating, Comment: form.Comment},
		UserLocation: s.userLocation,
		Identity:     dto.ConvertIdentity(s.sess.Identity),
	}

	for i, v := range s.vendors {
		view.Vendors = append(view.Vendors, dto.ConvertVendor(i, v, originPtr))
	}

	var vs *domain.VendorSelected
	switch st := s.nav.State().(type) {
	case domain.VendorSelected:
		vs = &st
	case domain.ProductSelected:
		vs = &st.Parent
		p := dto.ConvertProduct(productIndex(st.Parent.Products, st.Product.ID), st.Product)
		view.SelectedProduct = &p
		view.Loading.Reviews = st.Loading
		for _, r := range st.Reviews {
			view.Reviews = append(view.Reviews, dto.ConvertReview(r))
		}
		if !st.Loading {
			view.Rating = dto.ConvertRating(st.EffectiveRating())
		}
	}
	if vs != nil {
		v := dto.ConvertVendor(vendorIndex(s.vendors, vs.Vendor.ID), vs.Vendor, originPtr)
		view.SelectedVendor = &v
		view.Loading.Products = vs.Loading
		for i, p := range vs.Products {
			view.Products = append(view.Products, dto.ConvertProduct(i, p))
		}
	}

	status, reason := s.surface.Status()
	view.Map = dto.MapView{
		Status:   status,
		Markers:  s.surface.Markers(),
		Viewport: s.surface.Viewport(),
	}
	if reason != nil {
		view.Map.Reason = errors.MessageOf(reason, "")
	}
	if u, ok := s.surface.StaticURL(); ok {
		view.Map.StaticURL = u
	}
	return view
}

func errorView(err error) *dto.ErrorView {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		appErr = errors.ErrInternalServer
	}
	return &dto.ErrorView{
		Code:    appErr.Code,
		Kind:    string(appErr.Kind),
		Message: appErr.Message,
	}
}

func vendorIndex(vendors []domain.Vendor, id domain.EntityID) int {
	for i, v := range vendors {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func productIndex(products []domain.Product, id domain.EntityID) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// touch marks activity. Caller holds s.mu.
func (s *SearchScreen) touch() {
	s.lastActive = time.Now()
}

func (s *SearchScreen) spawn(fn func(ctx context.Context)) {
	s.pending.add()
	go func() {
		defer s.pending.done()
		fn(s.ctx)
	}()
}

// inflight counts background work. Unlike sync.WaitGroup it may be waited
// on while new work is being added.
type inflight struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func (f *inflight) add() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *inflight) done() {
	f.mu.Lock()
	f.n--
	if f.n == 0 {
		f.cond.Broadcast()
	}
	f.mu.Unlock()
}

func (f *inflight) wait() {
	f.mu.Lock()
	for f.n > 0 {
		f.cond.Wait()
	}
	f.mu.Unlock()
}
