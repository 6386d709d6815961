package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Sign up</h1>
	<nav>
		<a href="#/">Home</a>
		<a href="#/login">Sign in</a>
		<a href="#/register">Sign up</a>
		<a href="#/hidden" style="display:none">Hidden</a>
	</nav>
	<form id="signup">
		<input id="username" type="text" placeholder="Username" />
		<label for="email">Email</label>
		<input id="email" type="email" />
		<label>Password <input id="password" type="password" /></label>
		<button id="submit" type="submit" disabled>Sign up</button>
	</form>
	<ul class="error-messages"></ul>
	<script>
		const fields = ['username', 'email', 'password'].map(id => document.getElementById(id));
		const submit = document.getElementById('submit');
		fields.forEach(f => f.addEventListener('input', () => {
			submit.disabled = fields.some(x => x.value === '');
		}));
		document.getElementById('signup').addEventListener('submit', e => {
			e.preventDefault();
			const ul = document.querySelector('.error-messages');
			ul.innerHTML = '<li>email has already been taken</li><li>username is invalid</li>';
			location.hash = '#/done';
		});
	</script>
</body>
</html>`

	DelayedHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="slot"></div>
	<script>
		setTimeout(() => {
			document.getElementById('slot').innerHTML = "<h2>Don't panic</h2>";
		}, 300);
	</script>
</body>
</html>`
)
