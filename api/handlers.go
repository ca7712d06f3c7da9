package api

// BlogRepositories are the stores behind the blog service endpoints.
type BlogRepositories struct {
	Blogs BlogRepository
	Posts PostRepository
	Tags  TagRepository
	Users BlogUserRepository
}

// GatewayServices are the stores and services behind the gateway account
// endpoints.
type GatewayServices struct {
	Accounts    AccountService
	Users       GatewayUserRepository
	Authorities AuthorityRepository
	Issuer      string
	ClientID    string
}

// routeHandlers groups the handlers one server exposes. A nil handler means
// the routes are not mounted.
type routeHandlers struct {
	management managementHandler

	blogHandler    *blogHandler
	postHandler    *postHandler
	tagHandler     *tagHandler
	productHandler *productHandler
	userHandler    *userHandler
	accountHandler *accountHandler
}

// initializeHandlers creates the handlers for the services configured on r
func initializeHandlers(r *router) *routeHandlers {
	handlers := &routeHandlers{
		management: newManagementHandler(r.appName, r.startupTime, r.storeName, r.store),
	}

	if repos := r.blog; repos != nil {
		blog := newBlogHandler(r.appName, repos.Blogs, repos.Users)
		post := newPostHandler(r.appName, repos.Posts)
		tag := newTagHandler(r.appName, repos.Tags)
		user := newUserHandler(r.appName, repos.Users)
		handlers.blogHandler = &blog
		handlers.postHandler = &post
		handlers.tagHandler = &tag
		handlers.userHandler = &user
	}

	if r.products != nil {
		product := newProductHandler(r.appName, r.products)
		handlers.productHandler = &product
	}

	if gw := r.gateway; gw != nil {
		account := newAccountHandler(r.appName, gw.Accounts, gw.Users, gw.Authorities, authInfo{Issuer: gw.Issuer, ClientID: gw.ClientID})
		user := newUserHandler(r.appName, publicUsers{users: gw.Users})
		handlers.accountHandler = &account
		handlers.userHandler = &user
	}

	return handlers
}
