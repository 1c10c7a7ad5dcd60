package srv

type Srv struct {
	rbac *RBACSrv
}

type ApplyFunc func(*Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func ApplyModelRBAC() ApplyFunc {
	return func(s *Srv) {
		s.rbac = SetupRBACSrv()
	}
}

func (s *Srv) RBAC() *RBACSrv {
	return s.rbac
}
