package graph

import "context"

type Graph struct {
	runner   Runner
	blogRepo *BlogRepo
	postRepo *PostRepo
	tagRepo  *TagRepo
	userRepo *UserRepo
}

// New initializes every repository on a shared runner
func New(runner Runner) Graph {
	return Graph{
		runner:   runner,
		blogRepo: NewBlogRepo(runner),
		postRepo: NewPostRepo(runner),
		tagRepo:  NewTagRepo(runner),
		userRepo: NewUserRepo(runner),
	}
}

// Accessor methods for each repository

func (g Graph) BlogRepo() *BlogRepo {
	return g.blogRepo
}

func (g Graph) PostRepo() *PostRepo {
	return g.postRepo
}

func (g Graph) TagRepo() *TagRepo {
	return g.tagRepo
}

func (g Graph) UserRepo() *UserRepo {
	return g.userRepo
}

// Ping runs a trivial query; used by the health endpoint.
func (g Graph) Ping(ctx context.Context) error {
	_, err := g.runner.Read(ctx, "RETURN 1 AS ok", nil)
	return err
}

func (g Graph) Migrate(ctx context.Context) error {
	return Migrate(ctx, g.runner)
}
